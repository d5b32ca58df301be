// Package config loads the CLI-facing session configuration that the
// modem core itself never owns: callsigns, channel access number, data
// type, sample rates and sink/source selection. Grounded on the teacher's
// config-file conventions (direwolf.conf-style key/value session setup),
// expressed here as a YAML document per SPEC_FULL.md §3.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Session describes one M17 TX or RX session as loaded from a config file.
// Every field is loaded and saved, but cmd/m17mod only reads Src, Dst and
// CAN; DataType, the sample rates, Sink and Meta are not acted on by any
// tool in this repository.
type Session struct {
	// Src and Dst are plain-text callsigns, encoded via m17.EncodeCallsign
	// by the caller before building an LSF.
	Src string `yaml:"src"`
	Dst string `yaml:"dst"`

	// CAN is the channel access number, 0-15.
	CAN uint8 `yaml:"can"`

	// DataType names voice, data, or mixed voice+data, per the LSF type
	// field's DataType values ("voice", "data", "voice_data").
	DataType string `yaml:"data_type"`

	// TXSampleRate / RXSampleRate record the baseband sample rates; they
	// default to 48 kHz / 24 kHz.
	TXSampleRate int `yaml:"tx_sample_rate"`
	RXSampleRate int `yaml:"rx_sample_rate"`

	// Sink names the Modulator's output collaborator: "file" (raw PCM to
	// the CLI's --out path) or "portaudio" (live soundcard).
	Sink string `yaml:"sink"`

	// Meta holds free text for the LSF meta field.
	Meta string `yaml:"meta"`
}

// DefaultSession returns a Session with the protocol's fixed sample rates
// and the "file" sink, leaving callsigns/CAN/data type for the caller to
// fill in.
func DefaultSession() Session {
	return Session{
		CAN:          0,
		DataType:     "voice",
		TXSampleRate: 48000,
		RXSampleRate: 24000,
		Sink:         "file",
	}
}

// Load reads and parses a Session from a YAML file at path.
func Load(path string) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, err
	}

	session := DefaultSession()
	if err := yaml.Unmarshal(data, &session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// Save writes session to path as YAML.
func Save(path string, session Session) error {
	data, err := yaml.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
