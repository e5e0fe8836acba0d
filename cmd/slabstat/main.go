package main

import (
	"flag"
	"fmt"

	"github.com/fmstephe/slabpool/engine"
)

var (
	slabSizeFlag    = flag.Uint64("slab-size", 0, "Slab size in bytes (rounded up to a power of two); 0 selects the default")
	maxSlabsFlag    = flag.Int("max-slabs", 4, "Maximum number of slabs the pool may create")
	preAllocateFlag = flag.Bool("pre-allocate", false, "Pre-allocate the first slab before reporting stats")
	debugFlag       = flag.Bool("debug", false, "Enable the debug-mode misuse detector")
	acquireFlag     = flag.Int("acquire", 0, "Number of [16]byte objects to acquire before reporting stats")
)

// cell is a stand-in payload type for this demo; a real caller would
// instantiate engine.New over its own type.
type cell [16]byte

func main() {
	flag.Parse()

	cfg := engine.Config{
		SlabSize:    *slabSizeFlag,
		MaxSlabs:    *maxSlabsFlag,
		PreAllocate: *preAllocateFlag,
		Debug:       *debugFlag,
	}

	pool := engine.New[cell](cfg)
	defer pool.Destroy()

	fmt.Printf("cells per slab: %d\n", pool.CellsPerSlab())
	fmt.Printf("max slabs:      %d\n", pool.MaxSlabs())

	for range *acquireFlag {
		if _, ok := pool.Construct(); !ok {
			fmt.Printf("pool exhausted\n")
			break
		}
	}

	stats := pool.Stats()
	fmt.Printf("allocs: %d  frees: %d  reused: %d  live: %d  slabs: %d\n",
		stats.Allocs, stats.Frees, stats.Reused, stats.Live, stats.Slabs)
}
