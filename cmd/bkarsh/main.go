// bkarsh is a read-only interactive browser for bkar archives.
//
// Usage:
//
//	bkarsh <archive>
//
// Commands:
//
//	ls              List archive contents
//	stat <name>     Show size and block positions for one file
//	cat <name>      Dump a file's content to stdout
//	free            Show free block count
//	help            Show this help
//	exit / quit / q Exit
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/blockarchiver/bkar/pkg/archive"
	"github.com/blockarchiver/bkar/pkg/fs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: bkarsh <archive>")

		return errors.New("missing archive path")
	}

	path := os.Args[1]

	a, err := archive.OpenReadOnly(fs.NewReal(), path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer a.Close()

	shell := &shell{archive: a, path: path}

	return shell.run()
}

type shell struct {
	archive *archive.Archive
	path    string
	liner   *liner.State
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".bkarsh_history")
}

func (s *shell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("bkarsh - %s (read-only)\n", s.path)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := s.liner.Prompt("bkarsh> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			s.saveHistory()

			return nil
		case "help", "?":
			s.printHelp()
		case "ls", "list":
			s.cmdList(args)
		case "stat":
			s.cmdStat(args)
		case "cat":
			s.cmdCat(args)
		case "free":
			s.cmdFree()
		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()

	return nil
}

// saveHistory persists the session's line history, writing it via rename so
// a reader never observes a half-written history file (spec.md §5's
// resource-discipline concerns apply to this ambient convenience file too,
// even though the archive format itself declares atomic crash safety out of
// scope).
func (s *shell) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	var buf bytes.Buffer
	if _, err := s.liner.WriteHistory(&buf); err != nil {
		return
	}

	writer := fs.NewAtomicWriter(fs.NewReal())
	_ = writer.WriteWithDefaults(path, &buf)
}

func (s *shell) completer(line string) []string {
	commands := []string{"ls", "list", "stat", "cat", "free", "help", "exit", "quit", "q"}

	var out []string

	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}

	return out
}

func (s *shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  ls              List archive contents")
	fmt.Println("  stat <name>     Show size and block positions for one file")
	fmt.Println("  cat <name>      Dump a file's content to stdout")
	fmt.Println("  free            Show free block count")
	fmt.Println("  help            Show this help")
	fmt.Println("  exit / quit / q Exit")
}

func (s *shell) cmdList(_ []string) {
	listing := s.archive.List(false)
	if len(listing) == 0 {
		fmt.Println("(empty)")

		return
	}

	for _, entry := range listing {
		fmt.Printf("%-40s %10d bytes\n", entry.Filename, entry.FileSize)
	}
}

func (s *shell) cmdStat(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: stat <name>")

		return
	}

	for _, entry := range s.archive.List(true) {
		if entry.Filename != args[0] {
			continue
		}

		fmt.Printf("Name:   %s\n", entry.Filename)
		fmt.Printf("Size:   %d bytes\n", entry.FileSize)
		fmt.Printf("Blocks: %d\n", len(entry.BlockPositions))

		for i, pos := range entry.BlockPositions {
			fmt.Printf("  [%d] offset %d\n", i, pos)
		}

		return
	}

	fmt.Printf("not found: %s\n", args[0])
}

func (s *shell) cmdCat(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: cat <name>")

		return
	}

	data, err := s.archive.ReadFile(args[0])
	if err != nil {
		fmt.Printf("error: %v\n", err)

		return
	}

	os.Stdout.Write(data)

	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Println()
	}
}

func (s *shell) cmdFree() {
	fat := s.archive.FAT()

	available := 0

	for i := range fat.NumFreeBlocks {
		if fat.FreeBlocks[i] != 0 {
			available++
		}
	}

	fmt.Printf("Free blocks: %d available (%d slots tracked)\n", available, fat.NumFreeBlocks)
}
