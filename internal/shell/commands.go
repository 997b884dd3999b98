package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// errExit stops the loop; code carries the requested exit status.
type errExit struct{ code int }

func (e errExit) Error() string { return "exit " + strconv.Itoa(e.code) }

type command struct {
	name        string
	title       string
	usage       string
	description string
	// needsDrive commands take the drive as their first argument.
	needsDrive bool
	// walks commands read the scan cache and may start a walk.
	walks bool
	run   func(ctx context.Context, s *Shell, args []string) error
}

func (s *Shell) registerCommands() {
	s.add(command{
		name:        "help",
		title:       "Help",
		usage:       "help [command]",
		description: "Lists every command, or describes one command in detail.",
		run: func(ctx context.Context, s *Shell, args []string) error {
			return s.help(ctx, args)
		},
	})
	s.add(command{
		name:        "exit",
		title:       "Exit",
		usage:       "exit [code]",
		description: "Leaves the shell with an optional exit code.",
		run: func(_ context.Context, _ *Shell, args []string) error {
			if len(args) == 0 {
				return errExit{}
			}
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("exit: numeric argument required: %s", args[0])
			}
			return errExit{code: code}
		},
	})
	s.add(command{
		name:        "echo",
		title:       "Echo",
		usage:       "echo [words...]",
		description: "Repeats its arguments.",
		run: func(_ context.Context, s *Shell, args []string) error {
			fmt.Fprintln(s.out, strings.Join(args, " "))
			return nil
		},
	})
	s.add(command{
		name:        "pwd",
		title:       "pwd",
		usage:       "pwd",
		description: "Shows the directory the program runs in.",
		run: func(_ context.Context, s *Shell, _ []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("pwd: error getting current directory: %w", err)
			}
			fmt.Fprintln(s.out, dir)
			return nil
		},
	})
	s.add(command{
		name:        "type",
		title:       "Type",
		usage:       "type <command>",
		description: "Tells whether a command exists.",
		run: func(_ context.Context, s *Shell, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("usage: type <command>")
			}
			if _, ok := s.lookup(args[0]); ok {
				fmt.Fprintf(s.out, "%s is a shell builtin\n", args[0])
			} else {
				fmt.Fprintf(s.out, "%s: not found\n", args[0])
			}
			return nil
		},
	})
	s.add(command{
		name:        "drives",
		title:       "Drives",
		usage:       "drives",
		description: "Lists the fixed drives of this machine.",
		run: func(ctx context.Context, s *Shell, _ []string) error {
			drives, err := s.engine.Drives(ctx)
			if err != nil {
				return err
			}
			return s.reporter.Drives(drives)
		},
	})
	s.add(command{
		name:        "cached",
		title:       "Cached Drives",
		usage:       "cached",
		description: "Lists drives whose scan is held in memory.",
		run: func(_ context.Context, s *Shell, _ []string) error {
			return s.reporter.Drives(s.engine.CachedDrives())
		},
	})
	s.add(command{
		name:        "drive-space",
		title:       "Drive Space",
		usage:       "drive-space <drive>",
		description: "Shows total, used and free space of a drive.",
		needsDrive:  true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			space, err := s.engine.DriveSpace(ctx, args[0])
			if err != nil {
				return err
			}
			return s.reporter.DriveSpace(space)
		},
	})
	s.add(command{
		name:        "file-type-dist",
		title:       "File Type Distribution",
		usage:       "file-type-dist <drive>",
		description: "Shows the file extensions taking the most space.",
		needsDrive:  true,
		walks:       true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			stats, err := s.engine.FileTypeDistribution(ctx, args[0])
			if err != nil {
				return err
			}
			return s.reporter.TypeDistribution(args[0], stats)
		},
	})
	s.add(command{
		name:        "largest-files",
		title:       "Largest Files",
		usage:       "largest-files <drive>",
		description: "Shows the largest files.",
		needsDrive:  true,
		walks:       true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			files, err := s.engine.LargestFiles(ctx, args[0])
			if err != nil {
				return err
			}
			return s.reporter.Files("Largest Files", args[0], files)
		},
	})
	s.add(command{
		name:  "largest-folders",
		title: "Largest Folders",
		usage: "largest-folders <drive>",
		description: "Shows the largest folders up to the configured depth.\n" +
			"Hidden folders (those starting with '.') are skipped unless configured otherwise.",
		needsDrive: true,
		walks:      true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			folders, err := s.engine.LargestFolders(ctx, args[0])
			if err != nil {
				return err
			}
			return s.reporter.Folders("Largest Folders", args[0], folders)
		},
	})
	s.add(command{
		name:        "recent-large-files",
		title:       "Recent Large Files",
		usage:       "recent-large-files <drive>",
		description: "Shows the largest files modified within the recent window.",
		needsDrive:  true,
		walks:       true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			files, err := s.engine.RecentLargeFiles(ctx, args[0])
			if err != nil {
				return err
			}
			return s.reporter.Files("Recent Large Files", args[0], files)
		},
	})
	s.add(command{
		name:        "old-large-files",
		title:       "Old Large Files",
		usage:       "old-large-files <drive>",
		description: "Shows the largest files not modified for longer than the old age.",
		needsDrive:  true,
		walks:       true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			files, err := s.engine.OldLargeFiles(ctx, args[0])
			if err != nil {
				return err
			}
			return s.reporter.Files("Old Large Files", args[0], files)
		},
	})
	s.add(command{
		name:  "empty-folders",
		title: "Empty Folders",
		usage: "empty-folders <drive> [-save] [-delete]",
		description: "Lists folders with no files beneath them.\n" +
			"-save writes the list to the report file. Not every empty folder is safe to delete.",
		needsDrive: true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			return s.emptyFolders(ctx, args)
		},
	})
	s.add(command{
		name:        "rescan",
		title:       "Rescan",
		usage:       "rescan <drive>",
		description: "Discards the cached scan of a drive and walks it again.",
		needsDrive:  true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			res, err := s.engine.Rescan(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(s.errOut, "Rescanned %s: %d files in %s\n", res.Root, len(res.Files), res.Duration.Round(time.Millisecond))
			return nil
		},
	})
	s.add(command{
		name:        "full-drive-analysis",
		title:       "Full Drive Analysis",
		usage:       "full-drive-analysis <drive>",
		description: "Runs every report against a drive.",
		needsDrive:  true,
		walks:       true,
		run: func(ctx context.Context, s *Shell, args []string) error {
			a, err := s.engine.FullAnalysis(ctx, args[0])
			if err != nil {
				return err
			}
			return a.Render(s.reporter)
		},
	})
}

func (s *Shell) emptyFolders(ctx context.Context, args []string) error {
	for _, arg := range args {
		if arg == "-delete" {
			fmt.Fprintln(s.out, "Deletion functionality for empty folders is not yet implemented.")
			return nil
		}
	}

	drive := args[0]
	s.announce(drive)
	save := false
	for _, flag := range args[1:] {
		switch flag {
		case "-save":
			save = true
		default:
			return fmt.Errorf("empty-folders: unknown flag %s", flag)
		}
	}

	if !save {
		folders, err := s.engine.EmptyFolders(ctx, drive)
		if err != nil {
			return err
		}
		return s.reporter.EmptyFolders(drive, folders)
	}

	path, folders, err := s.engine.SaveEmptyFolders(ctx, drive)
	if err != nil {
		return err
	}
	if err := s.reporter.EmptyFolders(drive, folders); err != nil {
		return err
	}
	fmt.Fprintf(s.errOut, "Saved empty folders report to: %s\n", path)
	return nil
}

func (s *Shell) help(_ context.Context, args []string) error {
	if len(args) > 0 {
		c, ok := s.lookup(args[0])
		if !ok {
			fmt.Fprintf(s.out, "Command not found: %s\n", args[0])
			return nil
		}
		s.printHelp(c)
		return nil
	}
	for _, c := range s.commands {
		s.printHelp(c)
	}
	return nil
}

func (s *Shell) printHelp(c command) {
	fmt.Fprintf(s.out, "\n%s\n-------------\n%s\n  usage: %s\n", titleStyle.Render(c.title), c.description, c.usage)
}

func isExit(err error) (int, bool) {
	var e errExit
	if errors.As(err, &e) {
		return e.code, true
	}
	return 0, false
}
