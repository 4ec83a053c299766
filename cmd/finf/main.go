// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// finf converts documents between textual XML and Fast Infoset.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	finf "github.com/fast-infoset/go-finf"
	"github.com/fast-infoset/go-finf/fixml"
)

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "finf",
		Usage: "convert between textual XML and Fast Infoset",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "encode XML files to Fast Infoset",
				ArgsUsage: "FILE...",
				Flags:     convertFlags(".finf"),
				Action: func(c *cli.Context) error {
					return convertAll(c, true)
				},
			},
			{
				Name:      "decode",
				Usage:     "decode Fast Infoset files to XML",
				ArgsUsage: "FILE...",
				Flags:     convertFlags(".xml"),
				Action: func(c *cli.Context) error {
					return convertAll(c, false)
				},
			},
			{
				Name:      "info",
				Usage:     "summarize the contents of Fast Infoset files",
				ArgsUsage: "FILE...",
				Action:    info,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func convertFlags(ext string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output file (single input only); defaults to the input with a " + ext + " extension",
		},
	}
}

func convertAll(c *cli.Context, toBinary bool) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("no input files", 2)
	}
	if c.String("output") != "" && len(files) > 1 {
		return cli.Exit("--output requires exactly one input file", 2)
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for _, file := range files {
		file := file
		eg.Go(func() error {
			out := c.String("output")
			if out == "" {
				out = replaceExt(file, toBinary)
			}
			if err := convertFile(out, file, toBinary); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			log.WithFields(logrus.Fields{"in": file, "out": out}).Debug("converted")
			return nil
		})
	}
	return eg.Wait()
}

func replaceExt(file string, toBinary bool) string {
	ext := ".xml"
	if toBinary {
		ext = ".finf"
	}
	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}

func convertFile(out, in string, toBinary bool) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := fixml.Transcode(dst, src, toBinary); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func info(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return cli.Exit("no input files", 2)
	}
	for _, file := range c.Args().Slice() {
		if err := printInfo(file); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

func printInfo(file string) error {
	src, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	r := finf.NewReader(src)
	var elements, attributes, chunks, comments, pis int
	maxDepth := 0
	for {
		nt, err := r.Read()
		if err != nil {
			break
		}
		switch nt {
		case finf.NodeElement:
			elements++
			attributes += r.AttributeCount()
			if r.Depth() > maxDepth {
				maxDepth = r.Depth()
			}
		case finf.NodeText, finf.NodeCDATA:
			chunks++
		case finf.NodeComment:
			comments++
		case finf.NodeProcessingInstruction:
			pis++
		}
	}
	if r.ReadState() == finf.ReadStateError {
		_, err := r.Read()
		return err
	}
	fmt.Printf("%s: %d elements (max depth %d), %d attributes, %d character chunks, %d comments, %d processing instructions\n",
		file, elements, maxDepth, attributes, chunks, comments, pis)
	return nil
}
