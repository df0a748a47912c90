package analysis_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/arxeiss/deadfiles/analysis"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DiscoverFiles", func() {
	var (
		root   string
		logBuf *bytes.Buffer
		opts   analysis.DiscoverOptions
	)

	writeFile := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}
	abs := func(rels ...string) []string {
		out := make([]string, 0, len(rels))
		for _, rel := range rels {
			out = append(out, filepath.Join(root, filepath.FromSlash(rel)))
		}
		return out
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		logBuf = bytes.NewBuffer(nil)
		opts = analysis.DiscoverOptions{
			Extension: ".dart",
			Logger:    slog.New(slog.NewTextHandler(logBuf, nil)),
		}

		writeFile("main.dart", "")
		writeFile("src/a.dart", "")
		writeFile("src/deep/nested/b.dart", "")
		writeFile(".hidden/c.dart", "")
		writeFile("src/notes.txt", "")
		writeFile("src/a.dart.bak", "")
		writeFile("gen/model.g.dart", "")
	})

	It("finds all files with extension including hidden directories", func() {
		files, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		Expect(files).To(Equal(abs(
			".hidden/c.dart", "gen/model.g.dart", "main.dart", "src/a.dart", "src/deep/nested/b.dart",
		)))
	})

	It("returns same result on repeated runs", func() {
		first, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		second, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		Expect(second).To(Equal(first))
	})

	It("normalizes relative root", func() {
		wd, err := os.Getwd()
		Expect(err).To(Succeed())
		rel, err := filepath.Rel(wd, root)
		Expect(err).To(Succeed())

		files, err := analysis.DiscoverFiles(context.Background(), rel+"/./src/..", opts)
		Expect(err).To(Succeed())
		Expect(files).To(ContainElement(filepath.Join(root, "main.dart")))
		for _, f := range files {
			Expect(filepath.IsAbs(f)).To(BeTrue())
		}
	})

	It("returns files sorted by full path", func() {
		writeFile("a/x.dart", "")
		writeFile("a-b.dart", "")
		files, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		Expect(slices.IsSorted(files)).To(BeTrue())
		Expect(files).To(ContainElements(filepath.Join(root, "a-b.dart"), filepath.Join(root, "a", "x.dart")))
	})

	It("follows symlinked root", func() {
		link := filepath.Join(GinkgoT().TempDir(), "lib")
		Expect(os.Symlink(root, link)).To(Succeed())

		files, err := analysis.DiscoverFiles(context.Background(), link, opts)
		Expect(err).To(Succeed())
		Expect(files).To(Equal([]string{
			filepath.Join(link, ".hidden", "c.dart"),
			filepath.Join(link, "gen", "model.g.dart"),
			filepath.Join(link, "main.dart"),
			filepath.Join(link, "src", "a.dart"),
			filepath.Join(link, "src", "deep", "nested", "b.dart"),
		}))
	})

	It("applies ignore file under symlinked root", func() {
		writeFile(".deadfilesignore", "src/\n")
		link := filepath.Join(GinkgoT().TempDir(), "lib")
		Expect(os.Symlink(root, link)).To(Succeed())

		opts.IgnoreFile = ".deadfilesignore"
		files, err := analysis.DiscoverFiles(context.Background(), link, opts)
		Expect(err).To(Succeed())
		Expect(files).To(Equal([]string{
			filepath.Join(link, ".hidden", "c.dart"),
			filepath.Join(link, "gen", "model.g.dart"),
			filepath.Join(link, "main.dart"),
		}))
	})

	It("leaves out excluded globs", func() {
		opts.Exclude = []string{"**.g.dart", ".hidden"}
		files, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		Expect(files).To(Equal(abs("main.dart", "src/a.dart", "src/deep/nested/b.dart")))
	})

	It("fails on invalid exclude glob", func() {
		opts.Exclude = []string{"[a-"}
		_, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(MatchError(HavePrefix(`invalid exclude pattern "[a-"`)))
	})

	It("honors ignore file", func() {
		writeFile(".deadfilesignore", "src/deep/\n*.g.dart\n")
		opts.IgnoreFile = ".deadfilesignore"
		files, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		Expect(files).To(Equal(abs(".hidden/c.dart", "main.dart", "src/a.dart")))
	})

	It("works without ignore file present", func() {
		opts.IgnoreFile = ".deadfilesignore"
		files, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(Succeed())
		Expect(files).To(HaveLen(5))
		Expect(logBuf.String()).To(BeEmpty())
	})

	It("returns empty result for missing root", func() {
		files, err := analysis.DiscoverFiles(context.Background(), filepath.Join(root, "missing"), opts)
		Expect(err).To(Succeed())
		Expect(files).To(BeEmpty())
		Expect(logBuf.String()).To(ContainSubstring("Library root is not a readable directory"))
	})

	It("returns empty result when root is a file", func() {
		files, err := analysis.DiscoverFiles(context.Background(), filepath.Join(root, "main.dart"), opts)
		Expect(err).To(Succeed())
		Expect(files).To(BeEmpty())
	})

	It("fails without extension", func() {
		opts.Extension = ""
		_, err := analysis.DiscoverFiles(context.Background(), root, opts)
		Expect(err).To(MatchError("no file extension provided"))
	})

	It("stops on cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := analysis.DiscoverFiles(ctx, root, opts)
		Expect(err).To(MatchError(context.Canceled))
	})
})
