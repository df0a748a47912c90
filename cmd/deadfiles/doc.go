/*
The deadfiles command reports Dart files which are not reachable from any entry point of a package.

	Usage: deadfiles [flags] [path/to/lib]

The deadfiles command walks the lib directory of a Dart or Flutter package, reads every .dart file
and follows its import and part declarations, starting from the entry points (main.dart and
generated_plugin_registrant.dart by default). Files never reached are reported as unused.
Such files are candidates for removal, not a certainty.

# How it works

 1. Lists all .dart files under the lib root, hidden directories included
 2. Extracts quoted targets of import and part declarations with a plain text scan
 3. Resolves own package references (package:<name>/...) against the lib root and
    other references against the directory of the importing file
 4. Ignores dart: and other packages' references
 5. Runs breadth-first search from the entry points and reports what was not visited

# Example

Analyze Flutter application in current directory:

	$ deadfiles lib

Use different entry points and write JSON report:

	$ deadfiles -e main_dev.dart -e main_prod.dart --format json -o report.json lib

# Configuration

Settings are read from .deadfiles.yaml (current directory, then home directory),
environment variables prefixed with DEADFILES_ (also loaded from .env file) and flags,
flags having the highest priority. Run "deadfiles init" to write a starter config.

When the package name is not configured, it is taken from pubspec.yaml next to the lib root.

Files matching -exclude globs or listed in .deadfilesignore (gitignore syntax, inside the lib root)
are left out from the analysis.

# Output

The text report is written into analysis_results.txt by default. It contains counts of all, reachable
and unused files followed by sorted lists of unused and used files, relative to the lib root.
The header line is fixed ("Total Dart files found: N"), also when -ext selects other files.
When no entry point is found, all files are reported as unused and a warning section is appended.

The -debug flag enables verbose debug output on stderr.

# Limitations

The analysis is a text heuristic, not a Dart parser:
  - Conditional imports, exports and generated code are not understood
  - Declarations in comments are followed too
  - Reachability through reflection or dependency injection is invisible
*/
package main
