package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/actioncore/prefabs"
)

func main() {
	levelName := flag.String("level", "sandbox", "level name in levels/ (basename, .json optional)")
	debug := flag.Bool("debug", false, "draw hit shapes and controller state")
	watch := flag.Bool("watch", false, "reload prefabs/ when files change on disk")
	weapon := flag.String("weapon", "", "override the starting weapon")
	flag.Parse()

	game, err := NewGame(Options{
		Level:  *levelName,
		Debug:  *debug,
		Weapon: *weapon,
	})
	if err != nil {
		log.Fatal(err)
	}

	if *watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			log.Printf("watch: %v (hot reload disabled)", err)
		} else {
			defer w.Close()
			game.watcher = w
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("actioncore sandbox")
	ebiten.SetTPS(tps)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
