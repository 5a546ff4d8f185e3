package main

import (
	"flag"
	"log"

	"github.com/mogaika/rat_browser/config"
	"github.com/mogaika/rat_browser/vfs"
	"github.com/mogaika/rat_browser/web"
)

func main() {
	var addr, dir, webPath, encoding, settings string
	var seekCache bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to directory with .rat and .ratmesh files")
	flag.StringVar(&webPath, "web", "", "Path to static web viewer files (optional)")
	flag.StringVar(&encoding, "charmap", "", "Encoding of filename strings embedded in rat files")
	flag.BoolVar(&seekCache, "seekcache", false, "Reuse last decoded frame when seeking forward")
	flag.StringVar(&settings, "settings", "", "Path to yaml settings file (flags override it)")
	flag.Parse()

	if settings != "" {
		s, err := config.LoadSettings(settings)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		if dir == "" {
			dir = s.DataDir
		}
		if s.ListenAddr != "" && addr == ":8000" {
			addr = s.ListenAddr
		}
	}

	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Fatalf("Failed to set encoding: %v", err)
		}
	}
	if seekCache {
		config.SetForwardSeekCache(true)
	}

	if dir == "" {
		log.Fatalf("Provide path to rat files directory (-dir)")
	}

	d := vfs.NewDirectoryDriver(dir)

	log.Printf("Serving rat models from %q", dir)
	if err := web.StartServer(addr, d, webPath); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
