// Command cyclicdb-inspect prints a CyclicDB table file's schema and
// occupancy, read-only, for debugging and support tooling.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/jpl-au/cyclicdb"
)

func main() {
	flagSet := flag.NewFlagSet("cyclicdb-inspect", flag.ContinueOnError)
	records := flagSet.Bool("records", false, "also list every occupied record")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	args := flagSet.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cyclicdb-inspect [--records] <file>")
		os.Exit(2)
	}

	if err := run(args[0], *records); err != nil {
		fmt.Fprintln(os.Stderr, "cyclicdb-inspect:", err)
		os.Exit(1)
	}
}

func run(path string, listRecords bool) error {
	t, err := cyclicdb.OpenFileTable(path, cyclicdb.DefaultConfig())
	if err != nil {
		return err
	}
	defer t.Close()

	fmt.Printf("capacity:     %d\n", t.RecordCapacity())
	fmt.Printf("record_count: %d\n", t.RecordCount())
	fmt.Printf("min_index:    %s\n", formatIndex(t.MinIndex()))
	fmt.Printf("max_index:    %s\n", formatIndex(t.MaxIndex()))
	fmt.Printf("origin:       %d\n", t.RecordOrigin())
	fmt.Printf("duration:     %d\n", t.RecordDuration())
	fmt.Printf("fields:       %d\n", t.FieldCount())
	for i := 0; i < t.FieldCount(); i++ {
		f, err := t.Field(i)
		if err != nil {
			return err
		}
		fmt.Printf("  [%d] %-20s %-6s size=%d offset=%d\n", f.Index(), f.Name(), f.Type(), f.ByteSize(), f.ByteOffset())
	}

	if !listRecords {
		return nil
	}
	fmt.Println("records:")
	it := t.Records()
	for !it.Done() {
		idx := it.Index()
		rec, err := it.Next()
		if err != nil {
			return err
		}
		fmt.Printf("  [%d]", idx)
		for i := 0; i < t.FieldCount(); i++ {
			v, _ := rec.Get(i)
			if v.IsNull() {
				fmt.Print(" <null>")
				continue
			}
			s, _ := v.Int64()
			fmt.Printf(" %d", s)
		}
		fmt.Println()
	}
	return nil
}

func formatIndex(idx uint32) string {
	if idx == cyclicdb.InvalidIndex {
		return "none"
	}
	return fmt.Sprintf("%d", idx)
}
