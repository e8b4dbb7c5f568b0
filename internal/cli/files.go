package cli

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bjaus/anyconv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// stdinName reads the input document from standard input.
const stdinName = "-"

var extensionAliases = map[string]string{
	"yml":    anyconv.YAML.String(),
	"md":     anyconv.Markdown.String(),
	"jsonc":  anyconv.JSON.String(),
	"ndjson": anyconv.JSONL.String(),
}

// formatFromPath derives a format name from a file extension. It returns ""
// when the path has none.
func formatFromPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if alias, ok := extensionAliases[ext]; ok {
		return alias
	}
	return ext
}

func (a *app) inputFormatFor(name string) (string, error) {
	if a.inputFormat != "" {
		return a.inputFormat, nil
	}
	if name == stdinName {
		return "", fmt.Errorf("%w: reading standard input requires --input-format", anyconv.ErrMissingFormat)
	}
	if f := formatFromPath(name); f != "" {
		return f, nil
	}
	return "", fmt.Errorf("%w: %s has no extension, use --input-format", anyconv.ErrMissingFormat, name)
}

// readInput returns the bytes of name. Text formats are normalized to UTF-8
// without a byte order mark; UTF-16 input with a BOM is transcoded.
func (a *app) readInput(cmd *cobra.Command, name, format string) ([]byte, error) {
	var raw []byte
	var err error
	if name == stdinName {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = afero.ReadFile(a.fs, name)
	}
	if err != nil {
		return nil, err
	}
	if anyconv.EncodingFor(format) == anyconv.Binary {
		return raw, nil
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return text, nil
}

// decodeFile reads and decodes one input document.
func (a *app) decodeFile(cmd *cobra.Command, name string) (any, error) {
	format, err := a.inputFormatFor(name)
	if err != nil {
		return nil, err
	}
	data, err := a.readInput(cmd, name, format)
	if err != nil {
		return nil, err
	}
	a.log.Debug("decoding", "file", name, "format", format, "bytes", len(data))
	v, err := a.conv.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// writeOutput encodes v and writes it to dest, or to standard output when
// dest is empty. Text written to standard output always ends in a newline.
func (a *app) writeOutput(cmd *cobra.Command, v any, dest, format string) error {
	data, err := a.conv.Encode(v, format)
	if err != nil {
		return err
	}
	a.log.Debug("encoding", "file", dest, "format", format, "bytes", len(data))

	if dest == "" {
		w := cmd.OutOrStdout()
		if _, err := w.Write(data); err != nil {
			return err
		}
		if anyconv.EncodingFor(format) == anyconv.UTF8 && !bytes.HasSuffix(data, []byte("\n")) {
			_, err = io.WriteString(w, "\n")
		}
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := a.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return afero.WriteFile(a.fs, dest, data, 0o644)
}
