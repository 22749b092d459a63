package main

import (
	"context"
	"os"
	"time"

	"github.com/tailored-agentic-units/intelligence/tools"
)

type datetimeArgs struct{}

type pathArgs struct {
	Path string `json:"path" description:"Absolute or relative path."`
}

type listing struct {
	Entries []string `json:"entries"`
}

func builtinTools() (*tools.Registry, error) {
	datetime, err := tools.Func("datetime", "Returns the current date and time in RFC3339 format.", handleDatetime)
	if err != nil {
		return nil, err
	}
	readFile, err := tools.Func("read_file", "Reads the contents of a file at the given path.", handleReadFile)
	if err != nil {
		return nil, err
	}
	listDir, err := tools.Func("list_directory", "Lists files and directories at the given path.", handleListDirectory)
	if err != nil {
		return nil, err
	}

	return tools.NewRegistry(datetime, readFile, listDir)
}

func handleDatetime(_ context.Context, _ datetimeArgs) (string, error) {
	return time.Now().Format(time.RFC3339), nil
}

func handleReadFile(_ context.Context, args pathArgs) (string, error) {
	data, err := os.ReadFile(args.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func handleListDirectory(_ context.Context, args pathArgs) (listing, error) {
	path := args.Path
	if path == "" {
		path = "."
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return listing{}, err
	}

	out := listing{Entries: make([]string, 0, len(entries))}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		out.Entries = append(out.Entries, name)
	}
	return out, nil
}
