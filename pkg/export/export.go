// Package export serialises submissions to JSON, YAML and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdoc/pkg/model"
	"github.com/goliatone/go-formdoc/pkg/store"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// BinaryPlaceholder replaces inline image data in CSV cells.
const BinaryPlaceholder = "[Binary Image Data]"

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// ParseFormat resolves a format name. The empty string selects JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// FileName returns the download name for a single submission.
func (f Format) FileName(sub store.Submission) string {
	return fmt.Sprintf("submission_%s.%s", sub.ID, f)
}

// ListFileName returns the download name for a batch export taken on day.
func (f Format) ListFileName(day time.Time) string {
	return fmt.Sprintf("submissions_%s.%s", day.UTC().Format("2006-01-02"), f)
}

// Option tunes CSV output.
type Option func(*options)

type options struct {
	order map[string]int
}

// WithFieldOrder lists field ids in form order. CSV columns follow it; keys
// it does not name come after, alphabetically.
func WithFieldOrder(ids ...string) Option {
	return func(o *options) {
		if o.order == nil {
			o.order = make(map[string]int, len(ids))
		}
		for _, id := range ids {
			if _, ok := o.order[id]; !ok {
				o.order[id] = len(o.order)
			}
		}
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Submission writes one submission. CSV output carries the flattened data
// only: a header row and a value row.
func Submission(w io.Writer, sub store.Submission, format Format, opts ...Option) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, sub)
	case FormatYAML:
		return writeYAML(w, sub)
	case FormatCSV:
		flat, err := flatten(sub.Data)
		if err != nil {
			return err
		}
		keys := newOptions(opts).columns(flat)
		row := make([]string, len(keys))
		for i, key := range keys {
			row[i] = flat[key].value
		}
		return writeCSV(w, keys, [][]string{row})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Submissions writes a batch. CSV rows start with the submission id,
// template id and submission time, followed by the union of flattened data
// columns.
func Submissions(w io.Writer, subs []store.Submission, format Format, opts ...Option) error {
	if subs == nil {
		subs = []store.Submission{}
	}
	switch format {
	case FormatJSON:
		return writeJSON(w, subs)
	case FormatYAML:
		return writeYAML(w, subs)
	case FormatCSV:
		flats := make([]map[string]flatCell, len(subs))
		union := map[string]flatCell{}
		for i, sub := range subs {
			flat, err := flatten(sub.Data)
			if err != nil {
				return err
			}
			flats[i] = flat
			for key, c := range flat {
				union[key] = c
			}
		}
		keys := newOptions(opts).columns(union)
		header := append([]string{"submissionId", "templateId", "submittedAt"}, keys...)
		rows := make([][]string, len(subs))
		for i, sub := range subs {
			row := []string{sub.ID, sub.TemplateID, sub.SubmittedAt.UTC().Format(time.RFC3339)}
			for _, key := range keys {
				row = append(row, flats[i][key].value)
			}
			rows[i] = row
		}
		return writeCSV(w, header, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Flatten turns nested submission data into dotless column names. Arrays
// contribute their length under their own key and one entry per item as
// key[i]; objects join keys with an underscore. Inline image data is replaced
// by BinaryPlaceholder.
func Flatten(values model.Values) (map[string]string, error) {
	flat, err := flatten(values)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(flat))
	for key, c := range flat {
		out[key] = c.value
	}
	return out, nil
}

// segment is one step of a column path: an object key or an array index.
type segment struct {
	key   string
	index int
}

type flatCell struct {
	value string
	path  []segment
}

func flatten(values model.Values) (map[string]flatCell, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("export: encode values: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("export: decode values: %w", err)
	}
	out := map[string]flatCell{}
	flattenInto(out, "", nil, generic)
	return out, nil
}

func flattenInto(out map[string]flatCell, prefix string, path []segment, obj map[string]any) {
	for key, value := range obj {
		name := key
		if prefix != "" {
			name = prefix + "_" + key
		}
		keyPath := appendSegment(path, segment{key: key, index: -1})
		switch v := value.(type) {
		case []any:
			out[name] = flatCell{value: strconv.Itoa(len(v)), path: keyPath}
			for i, item := range v {
				itemKey := fmt.Sprintf("%s[%d]", name, i)
				itemPath := appendSegment(keyPath, segment{index: i})
				if nested, ok := item.(map[string]any); ok {
					flattenInto(out, itemKey, itemPath, nested)
					continue
				}
				out[itemKey] = flatCell{value: cell(item), path: itemPath}
			}
		case map[string]any:
			flattenInto(out, name, keyPath, v)
		default:
			out[name] = flatCell{value: cell(v), path: keyPath}
		}
	}
}

func appendSegment(path []segment, seg segment) []segment {
	out := make([]segment, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

// columns orders flattened keys: top-level fields by form order, array
// entries by index, object keys alphabetically, a parent before its children.
func (o options) columns(flat map[string]flatCell) []string {
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return o.pathLess(flat[keys[i]].path, flat[keys[j]].path)
	})
	return keys
}

func (o options) rank(key string) int {
	if r, ok := o.order[key]; ok {
		return r
	}
	return len(o.order)
}

func (o options) pathLess(a, b []segment) bool {
	if ra, rb := o.rank(a[0].key), o.rank(b[0].key); ra != rb {
		return ra < rb
	}
	for i := 0; i < len(a) && i < len(b); i++ {
		sa, sb := a[i], b[i]
		switch {
		case sa.index >= 0 && sb.index >= 0:
			if sa.index != sb.index {
				return sa.index < sb.index
			}
		case sa.index >= 0 || sb.index >= 0:
			return sa.index >= 0
		case sa.key != sb.key:
			return sa.key < sb.key
		}
	}
	return len(a) < len(b)
}

func cell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		if isInlineImage(v) {
			return BinaryPlaceholder
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func isInlineImage(value string) bool {
	return strings.HasPrefix(value, "data:image/")
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("export: yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("export: yaml: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	return nil
}
