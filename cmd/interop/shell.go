package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/KevoDB/interop/pkg/buffer"
	"github.com/KevoDB/interop/pkg/common/log"
	"github.com/KevoDB/interop/pkg/config"
	"github.com/KevoDB/interop/pkg/stats"
	"github.com/KevoDB/interop/pkg/telemetry"
	"github.com/KevoDB/interop/pkg/typed"
	"github.com/KevoDB/interop/pkg/untyped"
	"github.com/KevoDB/interop/pkg/untyped/protoval"
	"google.golang.org/protobuf/types/known/structpb"
)

// Shell holds the state of one interactive session: a working list, a
// working dictionary and an optional buffer source with its current view.
type Shell struct {
	cfg        *config.Config
	out        io.Writer
	logger     log.Logger
	tel        telemetry.Telemetry
	collector  *stats.AtomicCollector
	typedOpts  []typed.Option
	bufMetrics buffer.Metrics
	compressor *buffer.Compressor

	list   untyped.List
	dict   untyped.Dict
	source *buffer.Source
	view   *buffer.View
}

// NewShell creates a session writing results to out
func NewShell(cfg *config.Config, out io.Writer, logger log.Logger, tel telemetry.Telemetry) (*Shell, error) {
	collector := stats.NewAtomicCollector()
	bufMetrics := buffer.NewMetrics(tel, collector)

	compressor, err := buffer.NewCompressor(buffer.WithCompressorMetrics(bufMetrics))
	if err != nil {
		return nil, err
	}

	s := &Shell{
		cfg:        cfg,
		out:        out,
		logger:     logger.WithField("component", "shell"),
		tel:        tel,
		collector:  collector,
		typedOpts:  []typed.Option{typed.WithMetrics(typed.NewMetrics(tel, collector))},
		bufMetrics: bufMetrics,
		compressor: compressor,
	}
	s.reset()
	return s, nil
}

// Close releases the current view and the compressor
func (s *Shell) Close() error {
	s.releaseView()
	return s.compressor.Close()
}

// Prompt reflects whether a view is held and its mode
func (s *Shell) Prompt() string {
	switch {
	case s.view == nil:
		return "interop> "
	case s.view.IsReadOnly():
		return "interop[RO]> "
	default:
		return "interop[RW]> "
	}
}

func (s *Shell) reset() {
	s.releaseView()
	s.list = untyped.NewSliceList()
	s.dict = untyped.NewOrderedDict()
	s.source = nil
}

func (s *Shell) releaseView() {
	if s.view != nil {
		s.view.Release()
		s.view = nil
	}
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Execute runs one command line and reports whether the session should end
func (s *Shell) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	args, err := splitArgs(line)
	if err != nil {
		s.printf("Error: %v\n", err)
		return false
	}

	cmd := strings.ToUpper(args[0])
	s.logger.Debug("executing %s", cmd)

	ctx, span := s.tel.StartSpan(ctx, "interop.shell."+strings.ToLower(strings.TrimPrefix(cmd, ".")))
	defer span.End()

	if strings.HasPrefix(cmd, ".") {
		return s.dot(strings.ToLower(cmd), args[1:])
	}

	switch cmd {
	case "LIST", "PUSH", "INSERT", "SET", "DEL", "REMOVE", "GET", "ITER", "INDEX", "CLEAR":
		err = s.listCommand(cmd, args[1:])
	case "PUT", "LOOKUP", "TRYGET", "UNSET", "KEYS", "VALUES", "PAIRS":
		err = s.mapCommand(cmd, args[1:])
	case "BUF":
		err = s.bufCommand(ctx, args[1:])
	default:
		err = fmt.Errorf("unknown command %q, enter .help for usage", args[0])
	}

	if err != nil {
		s.logger.Debug("%s failed: %v", cmd, err)
		s.printf("Error: %v\n", err)
	}
	return false
}

func (s *Shell) dot(cmd string, args []string) bool {
	switch cmd {
	case ".help":
		s.printf("%s", helpText)
	case ".exit":
		s.printf("Goodbye!\n")
		return true
	case ".stats":
		s.printStats()
	case ".config":
		data, err := json.MarshalIndent(s.cfg, "", "  ")
		if err != nil {
			s.printf("Error: %v\n", err)
			return false
		}
		s.printf("%s\n", data)
	case ".load":
		if len(args) != 1 {
			s.printf("Error: usage: .load FILE\n")
			return false
		}
		if err := s.load(args[0]); err != nil {
			s.printf("Error: %v\n", err)
		}
	case ".save":
		if len(args) != 2 {
			s.printf("Error: usage: .save list|map FILE\n")
			return false
		}
		if err := s.save(args[0], args[1]); err != nil {
			s.printf("Error: %v\n", err)
		}
	case ".reset":
		s.reset()
		s.printf("Session reset\n")
	default:
		s.printf("Error: unknown command %q\n", cmd)
	}
	return false
}

// load replaces the working list or dictionary with a JSON document
func (s *Shell) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	v, err := protoval.Parse(data)
	if err != nil {
		return err
	}

	switch {
	case v.GetListValue() != nil:
		l := protoval.NewList(v.GetListValue())
		s.list = l
		s.printf("Loaded list with %d elements\n", l.Len())
	case v.GetStructValue() != nil:
		d := protoval.NewStruct(v.GetStructValue())
		s.dict = d
		s.printf("Loaded map with %d entries\n", d.Len())
	default:
		return fmt.Errorf("%s: document must be a JSON array or object", path)
	}
	return nil
}

// save writes the working list or dictionary as a JSON document
func (s *Shell) save(what, path string) error {
	var (
		v   *structpb.Value
		err error
	)
	switch strings.ToLower(what) {
	case "list":
		v, err = protoval.ListValue(s.list)
	case "map":
		v, err = protoval.StructValue(s.dict)
	default:
		return fmt.Errorf("cannot save %q, expected list or map", what)
	}
	if err != nil {
		return err
	}

	data, err := protoval.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	s.printf("Saved %s to %s (%d bytes)\n", strings.ToLower(what), path, len(data))
	return nil
}

func (s *Shell) printStats() {
	st := s.collector.GetStats()
	for _, k := range slices.Sorted(maps.Keys(st)) {
		switch v := st[k].(type) {
		case map[string]uint64:
			for _, ek := range slices.Sorted(maps.Keys(v)) {
				s.printf("  %s.%s: %d\n", k, ek, v[ek])
			}
		case int64:
			if strings.HasPrefix(k, "last_") {
				s.printf("  %s: %s\n", k, time.Unix(0, v).Format(time.RFC3339))
				continue
			}
			s.printf("  %s: %d\n", k, v)
		default:
			s.printf("  %s: %v\n", k, v)
		}
	}
}

func need(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func atoi(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an index: %s", s)
	}
	return i, nil
}

func (s *Shell) listCommand(cmd string, args []string) error {
	list := typed.NewListAdapter[any](s.list, s.typedOpts...)

	switch cmd {
	case "LIST":
		if err := need(args, 0, "LIST"); err != nil {
			return err
		}
		s.printf("%d element(s)%s\n", list.Len(), readOnlySuffix(list.IsReadOnly()))
		for i := 0; i < list.Len() && i < s.cfg.MaxDisplayItems; i++ {
			v, err := list.Get(i)
			if err != nil {
				return err
			}
			s.printf("  [%d] %s\n", i, formatValue(v))
		}

	case "PUSH":
		if err := need(args, 1, "PUSH lit"); err != nil {
			return err
		}
		v, err := parseLiteral(args[0])
		if err != nil {
			return err
		}
		if err := list.Add(v); err != nil {
			return err
		}
		s.printf("OK\n")

	case "INSERT", "SET":
		if err := need(args, 2, cmd+" i lit"); err != nil {
			return err
		}
		i, err := atoi(args[0])
		if err != nil {
			return err
		}
		v, err := parseLiteral(args[1])
		if err != nil {
			return err
		}
		if cmd == "INSERT" {
			err = list.Insert(i, v)
		} else {
			err = list.Set(i, v)
		}
		if err != nil {
			return err
		}
		s.printf("OK\n")

	case "DEL":
		if err := need(args, 1, "DEL i"); err != nil {
			return err
		}
		i, err := atoi(args[0])
		if err != nil {
			return err
		}
		if err := list.RemoveAt(i); err != nil {
			return err
		}
		s.printf("OK\n")

	case "REMOVE":
		if err := need(args, 1, "REMOVE lit"); err != nil {
			return err
		}
		v, err := parseLiteral(args[0])
		if err != nil {
			return err
		}
		removed, err := list.Remove(v)
		if err != nil {
			return err
		}
		s.printf("%t\n", removed)

	case "INDEX":
		if err := need(args, 1, "INDEX lit"); err != nil {
			return err
		}
		v, err := parseLiteral(args[0])
		if err != nil {
			return err
		}
		s.printf("%d\n", list.IndexOf(v))

	case "GET":
		if err := need(args, 2, "GET type i"); err != nil {
			return err
		}
		ops, err := lookupType(args[0], s.typedOpts)
		if err != nil {
			return err
		}
		i, err := atoi(args[1])
		if err != nil {
			return err
		}
		v, err := ops.get(s.list, i)
		if err != nil {
			return err
		}
		s.printf("%s\n", formatValue(v))

	case "ITER":
		if err := need(args, 1, "ITER type"); err != nil {
			return err
		}
		ops, err := lookupType(args[0], s.typedOpts)
		if err != nil {
			return err
		}
		ops.each(s.list, func(i int, v any, err error) {
			if err != nil {
				s.printf("  [%d] error: %v\n", i, err)
				return
			}
			s.printf("  [%d] %s\n", i, formatValue(v))
		})

	case "CLEAR":
		if err := list.Clear(); err != nil {
			return err
		}
		s.printf("OK\n")
	}
	return nil
}

func (s *Shell) mapCommand(cmd string, args []string) error {
	m := typed.NewMapAdapter[any, any](s.dict, s.typedOpts...)

	switch cmd {
	case "PUT":
		if err := need(args, 2, "PUT key lit"); err != nil {
			return err
		}
		k, err := parseLiteral(args[0])
		if err != nil {
			return err
		}
		v, err := parseLiteral(args[1])
		if err != nil {
			return err
		}
		if err := m.Set(k, v); err != nil {
			return err
		}
		s.printf("OK\n")

	case "LOOKUP", "TRYGET":
		if err := need(args, 2, cmd+" type key"); err != nil {
			return err
		}
		ops, err := lookupType(args[0], s.typedOpts)
		if err != nil {
			return err
		}
		k, err := parseLiteral(args[1])
		if err != nil {
			return err
		}
		if cmd == "LOOKUP" {
			v, err := ops.lookup(s.dict, k)
			if err != nil {
				return err
			}
			s.printf("%s\n", formatValue(v))
			return nil
		}
		v, ok, err := ops.tryGet(s.dict, k)
		if err != nil {
			return err
		}
		if !ok {
			s.printf("(absent)\n")
			return nil
		}
		s.printf("%s\n", formatValue(v))

	case "UNSET":
		if err := need(args, 1, "UNSET key"); err != nil {
			return err
		}
		k, err := parseLiteral(args[0])
		if err != nil {
			return err
		}
		removed, err := m.Remove(k)
		if err != nil {
			return err
		}
		s.printf("%t\n", removed)

	case "KEYS":
		keys, err := m.Keys()
		if err != nil {
			return err
		}
		s.printf("%d key(s)%s\n", len(keys), readOnlySuffix(m.IsReadOnly()))
		for i, k := range keys {
			if i >= s.cfg.MaxDisplayItems {
				break
			}
			s.printf("  %s\n", formatValue(k))
		}

	case "VALUES":
		if err := need(args, 1, "VALUES type"); err != nil {
			return err
		}
		ops, err := lookupType(args[0], s.typedOpts)
		if err != nil {
			return err
		}
		values, err := ops.values(s.dict)
		if err != nil {
			return err
		}
		for i, v := range values {
			if i >= s.cfg.MaxDisplayItems {
				break
			}
			s.printf("  %s\n", formatValue(v))
		}

	case "PAIRS":
		if err := need(args, 1, "PAIRS type"); err != nil {
			return err
		}
		ops, err := lookupType(args[0], s.typedOpts)
		if err != nil {
			return err
		}
		ops.pairs(s.dict, func(k, v any, err error) {
			if err != nil {
				s.printf("  error: %v\n", err)
				return
			}
			s.printf("  %s => %s\n", formatValue(k), formatValue(v))
		})
	}
	return nil
}

func (s *Shell) bufCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: BUF NEW|ACQUIRE|WRITE|READ|INFO|SUM|ZIP ...")
	}
	sub, args := strings.ToUpper(args[0]), args[1:]

	if sub == "NEW" {
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: BUF NEW n [RO]")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("not a size: %s", args[0])
		}
		mem := buffer.MutableMemory(make([]byte, n))
		if len(args) == 2 {
			if !strings.EqualFold(args[1], "RO") {
				return fmt.Errorf("usage: BUF NEW n [RO]")
			}
			mem = buffer.ReadOnlyMemory(make([]byte, n))
		}
		s.releaseView()
		s.source = buffer.NewSource(mem, buffer.WithLogger(s.logger), buffer.WithMetrics(s.bufMetrics))
		s.printf("Created %s\n", mem)
		return nil
	}

	if s.source == nil {
		return fmt.Errorf("no buffer, use BUF NEW n first")
	}

	if sub == "ACQUIRE" {
		if err := need(args, 1, "BUF ACQUIRE RW|RO"); err != nil {
			return err
		}
		var flags buffer.Flags
		switch strings.ToUpper(args[0]) {
		case "RW":
			flags = buffer.FlagContig | buffer.FlagFormat
		case "RO":
			flags = buffer.FlagContigRO | buffer.FlagFormat
		default:
			return fmt.Errorf("usage: BUF ACQUIRE RW|RO")
		}
		v, err := s.source.Acquire(ctx, flags)
		if err != nil {
			return err
		}
		s.releaseView()
		s.view = v
		s.printf("Acquired %s view (%s)\n", mode(v), flags)
		return nil
	}

	if s.view == nil {
		return fmt.Errorf("no view, use BUF ACQUIRE RW|RO first")
	}

	switch sub {
	case "WRITE":
		if err := need(args, 2, "BUF WRITE off text"); err != nil {
			return err
		}
		off, err := atoi(args[0])
		if err != nil {
			return err
		}
		text := args[1]
		if unq, err := strconv.Unquote(text); err == nil {
			text = unq
		}
		n, err := s.view.WriteAt([]byte(text), int64(off))
		if err != nil {
			return err
		}
		s.printf("Wrote %d byte(s)\n", n)

	case "READ":
		data := s.view.Bytes()
		if len(data) > s.cfg.MaxDisplayItems {
			data = data[:s.cfg.MaxDisplayItems]
		}
		s.printf("% x\n%q\n", data, data)

	case "INFO":
		format, _ := s.view.Format()
		_, hasShape := s.view.Shape()
		s.printf("mode=%s items=%d itemsize=%d ndim=%d offset=%d format=%q shape=%t flags=%s memory=%s\n",
			mode(s.view), s.view.ItemCount(), s.view.ItemSize(), s.view.NumDims(), s.view.Offset(),
			format, hasShape, s.view.Flags(), s.view.Memory())

	case "SUM":
		s.printf("%016x\n", s.view.Checksum())

	case "ZIP":
		name := s.cfg.DefaultCodec
		if len(args) > 0 {
			name = args[0]
		}
		codec, err := buffer.ParseCodec(name)
		if err != nil {
			return err
		}
		packed, err := s.compressor.Compress(ctx, s.view, codec)
		if err != nil {
			return err
		}
		mem, err := s.compressor.Decompress(ctx, packed, codec)
		if err != nil {
			return err
		}
		restored, err := buffer.NewSource(mem).Acquire(ctx, buffer.FlagSimple)
		if err != nil {
			return err
		}
		defer restored.Release()
		s.printf("%s: %d -> %d byte(s), round trip ok=%t\n",
			codec, s.view.Len(), len(packed), restored.Checksum() == s.view.Checksum())

	default:
		return fmt.Errorf("unknown BUF command %q", sub)
	}
	return nil
}

func mode(v *buffer.View) string {
	if v.IsReadOnly() {
		return "read-only"
	}
	return "writable"
}

func readOnlySuffix(ro bool) string {
	if ro {
		return " (read-only)"
	}
	return ""
}
