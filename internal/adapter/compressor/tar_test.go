package compressor

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pierrec/lz4/v4"
	"github.com/semmidev/archivist/internal/domain"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"

	. "github.com/smartystreets/goconvey/convey"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

type member struct {
	name    string
	content string
}

func openCodecReader(r io.Reader, format domain.Format) (io.Reader, error) {
	switch format {
	case domain.Gzip:
		return pgzip.NewReader(r)
	case domain.Bzip2:
		return bzip2.NewReader(r), nil
	case domain.Xz:
		return xz.NewReader(r)
	case domain.Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case domain.Lz4:
		return lz4.NewReader(r), nil
	}
	return nil, errors.New("unknown format")
}

func readMembers(path string, format domain.Format) ([]member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr, err := openCodecReader(f, format)
	if err != nil {
		return nil, err
	}

	var members []member
	tr := tar.NewReader(cr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return members, nil
		}
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		members = append(members, member{name: hdr.Name, content: string(content)})
	}
}

func TestTarArchiver(t *testing.T) {
	Convey("Given a TarArchiver on the OS filesystem", t, func() {
		tempDir, err := os.MkdirTemp("", "tar_archiver_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(tempDir)

		dataRoot := filepath.Join(tempDir, "data")
		So(os.MkdirAll(filepath.Join(dataRoot, "sub", "dir"), 0755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dataRoot, "top.txt"), []byte("top content"), 0644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dataRoot, "sub", "dir", "file.txt"), []byte("deep content"), 0644), ShouldBeNil)

		outDir := filepath.Join(tempDir, "out")
		So(os.Mkdir(outDir, 0755), ShouldBeNil)

		archiver := NewTar(afero.NewOsFs(), nopLogger{})
		manifest := domain.Manifest{"sub/dir/file.txt", "top.txt"}

		for _, format := range []domain.Format{domain.Gzip, domain.Bzip2, domain.Xz, domain.Zstd, domain.Lz4} {
			Convey("When writing a "+format.String()+" archive", func() {
				dest := filepath.Join(outDir, "daily_backup.tar."+format.Extension())
				size, err := archiver.Write(context.Background(), dest, dataRoot, manifest, format)

				Convey("Every manifest entry should be one member with relative name and content", func() {
					So(err, ShouldBeNil)
					So(size, ShouldBeGreaterThan, 0)

					info, err := os.Stat(dest)
					So(err, ShouldBeNil)
					So(info.Size(), ShouldEqual, size)
					So(info.Mode().Perm(), ShouldEqual, os.FileMode(0644))

					members, err := readMembers(dest, format)
					So(err, ShouldBeNil)
					So(members, ShouldResemble, []member{
						{name: "sub/dir/file.txt", content: "deep content"},
						{name: "top.txt", content: "top content"},
					})
				})

				Convey("No temporary file should remain", func() {
					entries, err := os.ReadDir(outDir)
					So(err, ShouldBeNil)
					So(len(entries), ShouldEqual, 1)
					So(entries[0].Name(), ShouldEqual, filepath.Base(dest))
				})
			})
		}

		Convey("When a manifest entry has vanished", func() {
			dest := filepath.Join(outDir, "daily_backup.tar.bz2")
			_, err := archiver.Write(context.Background(), dest, dataRoot, domain.Manifest{"top.txt", "gone.txt"}, domain.Bzip2)

			Convey("It should fail and leave nothing behind", func() {
				So(errors.Is(err, domain.ErrArchiveIO), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "gone.txt")

				entries, err := os.ReadDir(outDir)
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When the destination directory does not exist", func() {
			dest := filepath.Join(tempDir, "missing", "daily_backup.tar.gz")
			_, err := archiver.Write(context.Background(), dest, dataRoot, manifest, domain.Gzip)

			Convey("It should report that the archive cannot be opened", func() {
				So(errors.Is(err, domain.ErrArchiveIO), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "unable to open archive")
			})
		})

		Convey("When the destination already exists", func() {
			dest := filepath.Join(outDir, "daily_backup.tar.gz")
			So(os.WriteFile(dest, []byte("previous"), 0644), ShouldBeNil)

			_, err := archiver.Write(context.Background(), dest, dataRoot, manifest, domain.Gzip)

			Convey("It should refuse to overwrite it", func() {
				So(errors.Is(err, domain.ErrArchiveIO), ShouldBeTrue)
				So(errors.Is(err, os.ErrExist), ShouldBeTrue)

				content, err := os.ReadFile(dest)
				So(err, ShouldBeNil)
				So(string(content), ShouldEqual, "previous")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			dest := filepath.Join(outDir, "daily_backup.tar.zst")
			_, err := archiver.Write(ctx, dest, dataRoot, manifest, domain.Zstd)

			Convey("It should stop before adding members", func() {
				So(errors.Is(err, domain.ErrArchiveIO), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				_, statErr := os.Stat(dest)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When the format is unknown", func() {
			dest := filepath.Join(outDir, "daily_backup.tar.rar")
			_, err := archiver.Write(context.Background(), dest, dataRoot, manifest, domain.Format("rar"))

			Convey("It should fail without leaving a file", func() {
				So(errors.Is(err, domain.ErrArchiveIO), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "unsupported archive type")
				entries, _ := os.ReadDir(outDir)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}
