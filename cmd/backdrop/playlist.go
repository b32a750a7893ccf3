package main

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

// playlist is the ordered set of scenes the viewer cycles through with the keyboard.
type playlist struct {
	scenes []scene.Config
	index  int
}

// newPlaylist starts at first and follows it with every built-in preset of a different name.
func newPlaylist(first scene.Config, seed int64) (*playlist, error) {
	p := &playlist{scenes: []scene.Config{first}}
	for _, name := range scene.PresetNames() {
		if name == first.Name {
			continue
		}
		cfg, err := scene.Preset(name)
		if err != nil {
			return nil, err
		}
		p.scenes = append(p.scenes, cfg)
	}
	if seed != 0 {
		for i := range p.scenes {
			p.scenes[i].Seed = seed
		}
	}
	return p, nil
}

func (p *playlist) current() scene.Config {
	return p.scenes[p.index]
}

// handle maps a key code to the scene that should be mounted next.
func (p *playlist) handle(keyCode uint32) (scene.Config, bool) {
	switch {
	case keyCode == common.KeyN:
		p.index = (p.index + 1) % len(p.scenes)
	case keyCode == common.KeyP:
		p.index = (p.index + len(p.scenes) - 1) % len(p.scenes)
	case keyCode == common.KeyR:
	case keyCode >= common.Key1 && keyCode <= common.Key9:
		i := int(keyCode - common.Key1)
		if i >= len(p.scenes) {
			return scene.Config{}, false
		}
		p.index = i
	default:
		return scene.Config{}, false
	}
	return p.current(), true
}
