package cli

import (
	"errors"
	"io"
	"os"

	"github.com/blockarchiver/bkar/pkg/archive"
	"github.com/blockarchiver/bkar/pkg/fs"
)

// Run parses args and executes the requested operation(s), returning the
// process exit code (spec.md §6.2, §7).
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, env []string) int {
	out := NewIO(stdout, stderr)

	fsSet, pf := newFlagSet()

	if err := fsSet.Parse(args[1:]); err != nil {
		out.ErrPrintln("error:", err)
		out.ErrPrintln(usage)

		return 1
	}

	positionals := fsSet.Args()
	if len(positionals) == 0 {
		out.ErrPrintln("error: missing archive path")
		out.ErrPrintln(usage)

		return 1
	}

	archivePath := positionals[0]
	targets := positionals[1:]

	if err := validatePrimaryCount(pf); err != nil {
		out.ErrPrintln("error:", err)
		out.ErrPrintln(usage)

		return 1
	}

	if !anyOperationRequested(pf) {
		out.ErrPrintln("error: no operation requested")
		out.ErrPrintln(usage)

		return 1
	}

	realFS := fs.NewReal()

	workDir, err := os.Getwd()
	if err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}

	cfg, err := LoadConfig(realFS, workDir, env)
	if err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}

	_ = cacheResolvedConfig(cfg, env) // debugging aid only, never fatal

	verbose := pf.verbose
	if verbose == 0 {
		verbose = cfg.DefaultVerbose
	}

	lock, err := acquireLock(archivePath)
	if err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}
	defer lock.release()

	extractDir := workDir
	if cfg.ExtractDir != "" {
		extractDir = cfg.ExtractDir
	}

	return runOperations(stdin, out, realFS, archivePath, extractDir, targets, pf, verbose)
}

func validatePrimaryCount(pf *parsedFlags) error {
	count := 0

	for _, set := range []bool{pf.create, pf.extract, pf.del, pf.update, pf.append} {
		if set {
			count++
		}
	}

	if count > 1 {
		return errors.New("at most one of -c/-x/-d/-u/-r may be given")
	}

	return nil
}

func anyOperationRequested(pf *parsedFlags) bool {
	return pf.create || pf.extract || pf.list || pf.del || pf.update || pf.append || pf.pack
}

// runOperations opens the archive in the mode the requested composition
// needs, executes primary -> pack -> list in that order (spec.md §4.6), and
// returns the exit code.
func runOperations(
	stdin io.Reader, out *IO, realFS fs.FS, archivePath, workDir string,
	targets []string, pf *parsedFlags, verbose int,
) int {
	var a *archive.Archive

	var err error

	switch {
	case pf.create:
		a, err = archive.Create(realFS, archivePath)
	default:
		needsWrite := pf.del || pf.update || pf.append || pf.pack
		if needsWrite {
			a, err = archive.Open(realFS, archivePath)
		} else {
			a, err = archive.OpenReadOnly(realFS, archivePath)
		}
	}

	if err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}
	defer a.Close()

	switch {
	case pf.create:
		if code := runCreate(a, realFS, stdin, pf, targets, out); code != 0 {
			return code
		}
	case pf.extract:
		runExtract(a, realFS, workDir, out)
	case pf.del:
		if code := runDelete(a, targets, out); code != 0 {
			return code
		}
	case pf.update:
		if code := runUpdate(a, realFS, targets, out); code != 0 {
			return code
		}
	case pf.append:
		if code := runAppend(a, realFS, stdin, pf, targets, out); code != 0 {
			return code
		}
	}

	if pf.pack {
		if err := a.Defragment(); err != nil {
			out.ErrPrintln("error:", err)

			return 1
		}

		if err := a.Save(); err != nil {
			out.ErrPrintln("error:", err)

			return 1
		}
	}

	if pf.list {
		printList(a, verbose, out)
	}

	out.Finish()

	return 0
}

func runCreate(a *archive.Archive, realFS fs.FS, stdin io.Reader, pf *parsedFlags, targets []string, out *IO) int {
	if pf.file && len(targets) > 0 {
		for _, name := range targets {
			if err := a.AddFile(realFS, name, name); err != nil {
				out.ErrPrintln("error:", err)

				return 1
			}
		}
	} else {
		if err := a.AddReader(archive.StdinName, stdin); err != nil {
			out.ErrPrintln("error:", err)

			return 1
		}
	}

	if err := a.Save(); err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

func runAppend(a *archive.Archive, realFS fs.FS, stdin io.Reader, pf *parsedFlags, targets []string, out *IO) int {
	if pf.file && len(targets) > 0 {
		for _, name := range targets {
			err := a.AddFile(realFS, name, name)

			switch {
			case err == nil:
			case errors.Is(err, archive.ErrInputOpen):
				out.Note("skipping %s: %v", name, err)
			default:
				out.ErrPrintln("error:", err)

				return 1
			}
		}
	} else {
		if err := a.AddReader(archive.StdinName, stdin); err != nil {
			out.ErrPrintln("error:", err)

			return 1
		}
	}

	if err := a.Save(); err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

func runExtract(a *archive.Archive, realFS fs.FS, workDir string, out *IO) {
	for _, f := range a.ExtractAll(realFS, workDir) {
		out.Note("skipping %s: %v", f.Filename, f.Err)
	}
}

func runDelete(a *archive.Archive, targets []string, out *IO) int {
	for _, name := range targets {
		err := a.DeleteFile(name)

		switch {
		case err == nil:
		case errors.Is(err, archive.ErrNotFound):
			out.Note("not found: %s", name)
		default:
			out.ErrPrintln("error:", err)

			return 1
		}
	}

	if err := a.Save(); err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

func runUpdate(a *archive.Archive, realFS fs.FS, targets []string, out *IO) int {
	for _, name := range targets {
		err := a.UpdateFile(realFS, name, name)

		switch {
		case err == nil:
		case errors.Is(err, archive.ErrNotFound):
			out.Note("not found: %s", name)
		case errors.Is(err, archive.ErrInputOpen):
			out.Note("skipping %s: %v", name, err)
		default:
			out.ErrPrintln("error:", err)

			return 1
		}
	}

	if err := a.Save(); err != nil {
		out.ErrPrintln("error:", err)

		return 1
	}

	return 0
}

func printList(a *archive.Archive, verbose int, out *IO) {
	for _, entry := range a.List(verbose >= 1) {
		out.Printf("%s\t%d bytes\n", entry.Filename, entry.FileSize)

		if verbose >= 1 {
			for i, pos := range entry.BlockPositions {
				if verbose >= 2 {
					out.Printf("    [%d] %d\n", i, pos)
				} else {
					out.Printf("    %d\n", pos)
				}
			}
		}
	}
}
