package cyclicdb_test

import (
	"fmt"
	"log"

	"github.com/jpl-au/cyclicdb"
)

func Example() {
	schema, err := cyclicdb.NewSchema([]cyclicdb.FieldSpec{
		{Name: "temperature", Type: cyclicdb.DTFloat32},
		{Name: "humidity", Type: cyclicdb.DTUint8},
	})
	if err != nil {
		log.Fatal(err)
	}

	table, err := cyclicdb.NewMemoryTable(schema, 60, 0, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer table.Close()

	rec := table.NewRecord()
	rec.SetByName("temperature", cyclicdb.Float32Value(21.5))
	rec.SetByName("humidity", cyclicdb.Uint8Value(48))

	idx, err := table.AppendNext(rec)
	if err != nil {
		log.Fatal(err)
	}

	got, err := table.Get(idx)
	if err != nil {
		log.Fatal(err)
	}
	temp, _ := got.GetByName("temperature")
	v, _ := temp.Float32()
	fmt.Println(v)
	// Output: 21.5
}

func ExampleTable_AppendNext() {
	schema, _ := cyclicdb.NewSchema([]cyclicdb.FieldSpec{{Name: "v", Type: cyclicdb.DTInt32}})
	table, _ := cyclicdb.NewMemoryTable(schema, 4, 0, 0)
	defer table.Close()

	for i := int32(0); i < 6; i++ {
		rec := table.NewRecord()
		rec.SetByName("v", cyclicdb.Int32Value(i))
		table.AppendNext(rec)
	}

	fmt.Println(table.MinIndex(), table.MaxIndex())
	// Output: 2 5
}
