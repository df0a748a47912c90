package analysis_test

import (
	"os"
	"path/filepath"

	"github.com/arxeiss/deadfiles/analysis"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolver", func() {
	var resolver *analysis.Resolver

	BeforeEach(func() {
		resolver = analysis.NewResolver("/L", "myapp", analysis.DefaultBuiltinPrefixes)
	})

	DescribeTable("resolves references",
		func(fromFile, target, expected string) {
			resolved, ok := resolver.Resolve(fromFile, target)
			Expect(ok).To(BeTrue())
			Expect(resolved).To(Equal(expected))
		},
		Entry("own package", "/L/main.dart", "package:myapp/foo/bar.dart", "/L/foo/bar.dart"),
		Entry("own package from nested file", "/L/a/b/c.dart", "package:myapp/foo/bar.dart", "/L/foo/bar.dart"),
		Entry("own package with dot segments", "/L/main.dart", "package:myapp/foo/../baz/./x.dart", "/L/baz/x.dart"),
		Entry("relative parent", "/L/ui/screen.dart", "../models/user.dart", "/L/models/user.dart"),
		Entry("relative sibling", "/L/ui/screen.dart", "widget.dart", "/L/ui/widget.dart"),
		Entry("relative with dot", "/L/ui/screen.dart", "./widget.dart", "/L/ui/widget.dart"),
		Entry("relative escaping lib root", "/L/main.dart", "../test/helper.dart", "/test/helper.dart"),
		Entry("absolute path", "/L/ui/a.dart", "/L/models/u.dart", "/L/models/u.dart"),
		Entry("absolute path with dot segments", "/L/ui/a.dart", "/L/x/../models/./u.dart", "/L/models/u.dart"),
		Entry("package name is prefix of other package", "/L/main.dart", "myapp_utils/x.dart", "/L/myapp_utils/x.dart"),
	)

	DescribeTable("discards external references",
		func(target string) {
			resolved, ok := resolver.Resolve("/L/main.dart", target)
			Expect(ok).To(BeFalse())
			Expect(resolved).To(BeEmpty())
		},
		Entry("dart:core", "dart:core"),
		Entry("dart:async", "dart:async"),
		Entry("other package", "package:other_pkg/x.dart"),
		Entry("package with same name prefix", "package:myapp_utils/x.dart"),
		Entry("flutter", "package:flutter/material.dart"),
	)

	It("uses custom builtin prefixes", func() {
		r := analysis.NewResolver("/L", "myapp", []string{"dart:", "dart-ext:"})
		_, ok := r.Resolve("/L/main.dart", "dart-ext:native")
		Expect(ok).To(BeFalse())
	})

	Describe("Declarations", func() {
		It("finds imports and parts with both quote styles", func() {
			content := []byte(`library foo;

import 'dart:io';
import "package:myapp/a.dart" show A;
import   'b.dart' as b;
export 'c.dart';
part 'foo_part.dart';
part of 'parent.dart';
part "other_part.dart";
`)
			Expect(analysis.Declarations(content)).To(Equal([]string{
				"dart:io", "package:myapp/a.dart", "b.dart", "foo_part.dart", "other_part.dart",
			}))
		})

		It("returns empty list without declarations", func() {
			Expect(analysis.Declarations([]byte("void main() {}\n"))).To(BeEmpty())
		})

		It("resolves content into set without duplicates", func() {
			content := []byte("import 'package:myapp/a.dart';\nimport 'a.dart';\nimport 'dart:core';\n")
			imports := resolver.ResolveContent("/L/main.dart", content)
			Expect(imports).To(HaveLen(1))
			Expect(imports).To(HaveKey("/L/a.dart"))
		})
	})

	Describe("ResolveFile", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
			resolver = analysis.NewResolver(dir, "myapp", analysis.DefaultBuiltinPrefixes)
		})

		It("resolves readable file", func() {
			path := filepath.Join(dir, "ui", "screen.dart")
			Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
			Expect(os.WriteFile(path, []byte("import '../models/user.dart';\npart 'screen_part.dart';\n"), 0o644)).
				To(Succeed())

			fi := resolver.ResolveFile(path)
			Expect(fi.Err).NotTo(HaveOccurred())
			Expect(fi.Path).To(Equal(path))
			Expect(fi.Targets()).To(Equal([]string{
				filepath.Join(dir, "models", "user.dart"),
				filepath.Join(dir, "ui", "screen_part.dart"),
			}))
		})

		It("reports missing file as failure with no imports", func() {
			fi := resolver.ResolveFile(filepath.Join(dir, "missing.dart"))
			Expect(fi.Err).To(MatchError(ContainSubstring("failed to read file")))
			Expect(fi.Imports).To(BeEmpty())
		})

		It("reports invalid UTF-8 as failure with no imports", func() {
			path := filepath.Join(dir, "binary.dart")
			Expect(os.WriteFile(path, []byte("import 'a.dart';\n\xff\xfe\x00"), 0o644)).To(Succeed())

			fi := resolver.ResolveFile(path)
			Expect(fi.Err).To(MatchError("content is not valid UTF-8"))
			Expect(fi.Imports).To(BeEmpty())
		})
	})
})
