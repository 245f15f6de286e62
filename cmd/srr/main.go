// srr is a command line front end for the srr compression engine. It
// compresses files to <name>.srr containers and restores them, mirroring
// the behavior of the desktop front end: only known text formats are
// compressed unless told otherwise, and the batch stops at the first
// failure.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/zerobit/srr"
)

// allowedExtensions lists the text formats accepted by default.
var allowedExtensions = map[string]bool{
	".txt":  true,
	".csv":  true,
	".log":  true,
	".xml":  true,
	".html": true,
	".json": true,
	".md":   true,
	".ini":  true,
	".yaml": true,
	".yml":  true,
}

var dirFlag = &cli.StringFlag{
	Name:    "dir",
	Aliases: []string{"d"},
	Usage:   "output `directory` (defaults to each input's directory)",
}

var commandCompress = &cli.Command{
	Name:      "compress",
	Aliases:   []string{"c"},
	Usage:     "compress files to <name>.srr",
	ArgsUsage: "files...",
	Flags: []cli.Flag{
		dirFlag,
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "compress any file, not just known text formats",
		},
	},
	Action: compressFiles,
}

var commandDecompress = &cli.Command{
	Name:      "decompress",
	Aliases:   []string{"x"},
	Usage:     "restore .srr files to their original names",
	ArgsUsage: "files...",
	Flags:     []cli.Flag{dirFlag},
	Action:    decompressFiles,
}

func main() {
	app := &cli.App{
		Name:     "srr",
		Usage:    "compress and restore files in the srr container format",
		Commands: []*cli.Command{commandCompress, commandDecompress},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func compressFiles(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.ShowSubcommandHelp(ctx)
	}
	files := ctx.Args().Slice()
	for i, in := range files {
		if !ctx.Bool("all") && !allowedExtensions[strings.ToLower(filepath.Ext(in))] {
			fmt.Fprintf(os.Stderr, "skipping unsupported file: %s\n", in)
			continue
		}
		out := outputPath(ctx.String("dir"), in, filepath.Base(in)+".srr")
		if err := srr.Compress(in, out); err != nil {
			return errors.Wrapf(err, "compress %s", in)
		}
		fmt.Printf("[%d/%d] %s -> %s\n", i+1, len(files), in, out)
	}
	return nil
}

func decompressFiles(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.ShowSubcommandHelp(ctx)
	}
	files := ctx.Args().Slice()
	for i, in := range files {
		base := filepath.Base(in)
		if !strings.HasSuffix(strings.ToLower(base), ".srr") {
			return errors.Errorf("%s is not an .srr file", in)
		}
		out := outputPath(ctx.String("dir"), in, base[:len(base)-len(".srr")])
		if err := srr.Decompress(in, out); err != nil {
			return errors.Wrapf(err, "decompress %s", in)
		}
		fmt.Printf("[%d/%d] %s -> %s\n", i+1, len(files), in, out)
	}
	return nil
}

// outputPath places name in dir, or next to the input when dir is empty.
func outputPath(dir, in, name string) string {
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, name)
}
