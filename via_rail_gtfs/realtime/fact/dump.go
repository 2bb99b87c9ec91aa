// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package fact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
)

const (
	Binary        = false
	HumanReadable = true
)

func (c *Container) DumpJSON(w io.Writer, humanReadable bool) error {
	e := json.NewEncoder(w)
	if humanReadable {
		e.SetIndent("", "\t")
	}
	return e.Encode(c)
}

func (c *Container) DumpJSONFile(path string, humanReadable bool) error {
	return writeFileAtomically(path, func(w io.Writer) error {
		return c.DumpJSON(w, humanReadable)
	})
}

func (c *Container) DumpGTFS(w io.Writer, humanReadable bool) error {
	var data []byte
	var err error

	if humanReadable {
		data, err = prototext.MarshalOptions{Multiline: true}.Marshal(c.AsGTFS())
	} else {
		data, err = proto.Marshal(c.AsGTFS())
	}

	if err != nil {
		return fmt.Errorf("failed to marshal to protobuf: %w", err)
	}

	_, err = w.Write(data)
	return err
}

func (c *Container) DumpGTFSFile(path string, humanReadable bool) error {
	return writeFileAtomically(path, func(w io.Writer) error {
		return c.DumpGTFS(w, humanReadable)
	})
}

// writeFileAtomically writes to a temporary file next to path, and then moves it over path,
// so that readers never observe a partially-written file.
func writeFileAtomically(path string, write func(io.Writer) error) error {
	tempPath := getTempOutputPath(path)

	f, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	b := bufio.NewWriter(f)
	err = write(b)
	if err == nil {
		err = b.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, path)
}

func getTempOutputPath(path string) string {
	dir, name := filepath.Split(path)
	return fmt.Sprintf("%s.%s.tmp", dir, name)
}
