package heatmappresenter

import (
	"strings"
)

// Artifact is one rendered output bound for a destination path.
type Artifact struct {
	Path string
	Data []byte
}

// Presenter delivers text and rendered artifacts without coupling the CLI
// to where they end up.
type Presenter struct {
	sendMessage func(message string) error
	saveFile    func(path string, data []byte) error
}

func NewPresenter(sendMessage func(message string) error, saveFile func(path string, data []byte) error) *Presenter {
	return &Presenter{
		sendMessage: sendMessage,
		saveFile:    saveFile,
	}
}

func (p *Presenter) Frame(message string, artifacts ...Artifact) error {
	if p == nil {
		return nil
	}
	if strings.TrimSpace(message) != "" && p.sendMessage != nil {
		if err := p.sendMessage(message); err != nil {
			return err
		}
	}
	if p.saveFile == nil {
		return nil
	}
	for _, a := range artifacts {
		if strings.TrimSpace(a.Path) == "" || len(a.Data) == 0 {
			continue
		}
		if err := p.saveFile(a.Path, a.Data); err != nil {
			return err
		}
	}
	return nil
}
