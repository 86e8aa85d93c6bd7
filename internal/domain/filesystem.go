package domain

type Provisioner interface {
	EnsureDirectory(path string) error
}

type Enumerator interface {
	Enumerate(dataRoot string) (Manifest, error)
}
