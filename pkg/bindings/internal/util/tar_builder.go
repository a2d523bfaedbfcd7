package util

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/containers/storage/pkg/fileutils"
	"github.com/containers/storage/pkg/ioutils"
	"github.com/hashicorp/go-multierror"
	gzip "github.com/klauspost/pgzip"
)

type Devino struct {
	Dev uint64
	Ino uint64
}

type TarBuilder struct {
	files    []fileMapping
	sources  []sourceMapping
	excludes []string
}

type sourceMapping struct {
	source string // Absolute path of the source directory/file
	target string // Custom path inside the tar archive
}

type fileMapping struct {
	target  string
	content []byte
	mode    int64
}

// NewTarBuilder returns a new TarBuilder
func NewTarBuilder() *TarBuilder {
	return &TarBuilder{
		files:    []fileMapping{},
		sources:  []sourceMapping{},
		excludes: []string{},
	}
}

// Add adds a new source directory or file and the corresponding target inside the tar.
func (tb *TarBuilder) Add(source string, target string) error {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source: %v", err)
	}
	tb.sources = append(tb.sources, sourceMapping{source: absSource, target: target})
	return nil
}

// AddFile adds an in-memory regular file at target. Files are written before
// the source trees.
func (tb *TarBuilder) AddFile(target string, content []byte, mode int64) {
	tb.files = append(tb.files, fileMapping{target: target, content: content, mode: mode})
}

// Exclude adds patterns to be excluded during tar creation.
func (tb *TarBuilder) Exclude(patterns ...string) {
	tb.excludes = append(tb.excludes, patterns...)
}

// Build generates the gzip compressed tarball and returns a ReadCloser for
// the stream. Errors hit while walking the sources surface from Read.
func (tb *TarBuilder) Build() (io.ReadCloser, error) {
	if len(tb.sources) == 0 && len(tb.files) == 0 {
		return nil, fmt.Errorf("no source(s) added for tar creation")
	}

	pm, err := fileutils.NewPatternMatcher(tb.excludes)
	if err != nil {
		return nil, fmt.Errorf("processing excludes list %v: %w", tb.excludes, err)
	}

	pr, pw := io.Pipe()

	go func() {
		var merr *multierror.Error
		gw := gzip.NewWriter(pw)
		tw := tar.NewWriter(gw)

		for _, f := range tb.files {
			if err := writeFile(tw, f); err != nil {
				merr = multierror.Append(merr, err)
			}
		}

		seen := make(map[Devino]string)
		for _, src := range tb.sources {
			if err := tb.walk(tw, pm, src, seen); err != nil {
				merr = multierror.Append(merr, err)
			}
		}

		if err := tw.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
		if err := gw.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
		pw.CloseWithError(merr.ErrorOrNil())
	}()

	return ioutils.NewReadCloserWrapper(pr, pr.Close), nil
}

func writeFile(tw *tar.Writer, f fileMapping) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     filepath.ToSlash(f.target),
		Mode:     f.mode,
		Size:     int64(len(f.content)),
		ModTime:  time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(f.content)
	return err
}

func (tb *TarBuilder) walk(tw *tar.Writer, pm *fileutils.PatternMatcher, src sourceMapping, seen map[Devino]string) error {
	return filepath.WalkDir(src.source, func(path string, dentry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Build the relative path under the custom target path
		relPath, err := filepath.Rel(src.source, path)
		if err != nil {
			return err
		}
		targetPath := filepath.ToSlash(filepath.Join(src.target, relPath))

		// Check exclusion patterns
		if !filepath.IsAbs(targetPath) {
			excluded, err := pm.IsMatch(targetPath)
			if err != nil {
				return fmt.Errorf("checking if %q is excluded: %w", targetPath, err)
			}
			if excluded {
				return nil
			}
		}

		switch {
		case dentry.Type().IsRegular(): // Handle files
			info, err := dentry.Info()
			if err != nil {
				return err
			}
			di, isHardLink := CheckHardLink(info)

			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			hdr.Name = targetPath
			hdr.Uid, hdr.Gid = 0, 0
			orig, ok := seen[di]
			if ok {
				hdr.Typeflag = tar.TypeLink
				hdr.Linkname = orig
				hdr.Size = 0
				return tw.WriteHeader(hdr)
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			_, err = io.Copy(tw, f)
			if err == nil && isHardLink {
				seen[di] = targetPath
			}
			return err
		case dentry.IsDir(): // Handle directories
			info, err := dentry.Info()
			if err != nil {
				return err
			}
			hdr, lerr := tar.FileInfoHeader(info, targetPath)
			if lerr != nil {
				return lerr
			}
			hdr.Name = targetPath + "/"
			hdr.Uid, hdr.Gid = 0, 0
			return tw.WriteHeader(hdr)
		case dentry.Type()&os.ModeSymlink != 0: // Handle symlinks
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			info, err := dentry.Info()
			if err != nil {
				return err
			}
			hdr, lerr := tar.FileInfoHeader(info, link)
			if lerr != nil {
				return lerr
			}
			hdr.Name = targetPath
			hdr.Uid, hdr.Gid = 0, 0
			return tw.WriteHeader(hdr)
		}
		return nil
	})
}
