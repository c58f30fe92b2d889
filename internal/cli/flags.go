package cli

import (
	"strings"

	flag "github.com/spf13/pflag"
)

// parsedFlags holds the outcome of parsing the CLI surface defined in
// spec.md §6.2.
type parsedFlags struct {
	create  bool
	extract bool
	list    bool
	del     bool
	update  bool
	append  bool
	pack    bool
	file    bool
	verbose int

	args []string // positionals: archive path, then per-file targets
}

// newFlagSet builds the pflag.FlagSet for the archiver's single-invocation
// surface (BoolVarP/CountVarP registrations, usage output discarded in
// favor of a hand-written usage block).
func newFlagSet() (*flag.FlagSet, *parsedFlags) {
	fs := flag.NewFlagSet("bkar", flag.ContinueOnError)
	fs.SetInterspersed(true)
	fs.SetOutput(&strings.Builder{}) // usage is printed by us, not pflag

	pf := &parsedFlags{}

	fs.BoolVarP(&pf.create, "create", "c", false, "create a new archive")
	fs.BoolVarP(&pf.extract, "extract", "x", false, "extract all files from the archive")
	fs.BoolVarP(&pf.list, "list", "t", false, "list archive contents")
	fs.BoolVarP(&pf.del, "delete", "d", false, "delete named files from the archive")
	fs.BoolVarP(&pf.update, "update", "u", false, "replace named files with their current disk contents")
	fs.BoolVarP(&pf.append, "append", "r", false, "append named files (or standard input) to the archive")
	fs.BoolVarP(&pf.pack, "pack", "p", false, "defragment the archive")
	fs.BoolVarP(&pf.file, "file", "f", false, "use file arguments instead of standard input")
	fs.CountVarP(&pf.verbose, "verbose", "v", "increase verbosity (repeatable)")

	return fs, pf
}

const usage = `Usage: bkar [-cxtdurpf] [-v|-vv] <archive> [file...]

  -c, --create    create a new archive
  -x, --extract   extract all files from the archive
  -t, --list      list archive contents
  -d, --delete    delete named files from the archive
  -u, --update    replace named files with their current disk contents
  -r, --append    append named files (or standard input) to the archive
  -p, --pack      defragment the archive
  -v, --verbose   increase verbosity (repeatable: -v, -vv)
  -f, --file      use file arguments instead of standard input

At most one of -c/-x/-d/-u/-r may be given. -p and -t may be combined with
any primary operation or with each other; execution order is always
primary, then pack, then list.`
