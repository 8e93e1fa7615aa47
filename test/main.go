package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"

	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/constant"
	"github.com/infinivision/blockaccess/store"
)

func main() {
	path := flag.String("config", "", "YAML store configuration")
	n := flag.Int("n", 100, "number of blocks")
	flag.Parse()

	cfg := store.DefaultConfig()
	if *path != "" {
		var err error
		if cfg, err = store.LoadConfig(*path); err != nil {
			log.Fatal(err)
		}
	}
	a, err := store.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	base := a.AllocBoundary()
	{
		for i := 0; i < *n; i++ {
			b, err := a.Allocate(cfg.BlockSize)
			if err != nil {
				log.Fatal(err)
			}
			copy(b.Buffer(), pattern(b.ID(), cfg.BlockSize))
			if err := a.Write(b); err != nil {
				log.Fatal(err)
			}
		}
		if err := a.Sync(); err != nil {
			log.Fatal(err)
		}
	}
	verify(a, base, *n, cfg.BlockSize)
	if err := a.Close(); err != nil {
		log.Fatal(err)
	}
	switch cfg.Mode {
	case constant.ModeDirect, constant.ModeMapped:
		if a, err = store.Open(cfg); err != nil {
			log.Fatal(err)
		}
		defer a.Close()
		verify(a, base, *n, cfg.BlockSize)
	}
	fmt.Printf("%s: %d blocks of %d bytes verified\n", a.Label(), *n, cfg.BlockSize)
}

func verify(a block.Access, base int64, n, size int) {
	for i := 0; i < n; i++ {
		id := base + int64(i)
		b, err := a.Read(id)
		if err != nil {
			log.Fatal(err)
		}
		if !bytes.Equal(b.Buffer(), pattern(id, size)) {
			log.Fatal(fmt.Errorf("block %v does not hold its pattern\n", id))
		}
	}
}

func pattern(id int64, size int) []byte {
	return bytes.Repeat([]byte{byte(id)}, size)
}
