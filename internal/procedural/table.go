package procedural

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/lexcore/internal/model"
	"gopkg.in/yaml.v3"
)

// Entry is one deterministic table row keyed by law code and canonical stage label
type Entry struct {
	LawCode            string `yaml:"law_code"`
	Stage              string `yaml:"stage"`
	CurrentStage       string `yaml:"current_stage"`
	NextStep           string `yaml:"next_procedural_step"`
	TimelineDays       int    `yaml:"timeline_days"`
	MaxExtensionDays   int    `yaml:"max_extension_days"`
	StatutoryReference string `yaml:"statutory_reference"`
}

// builtinEntries is the pre-declared procedural table. Order decides which
// entry wins when a query stage matches more than one label.
var builtinEntries = []Entry{
	{
		LawCode:            "cpc",
		Stage:              "summons received",
		CurrentStage:       "Summons received",
		NextStep:           "Filing of Written Statement",
		TimelineDays:       30,
		MaxExtensionDays:   120,
		StatutoryReference: "Order VIII Rule 1, Civil Procedure Code (CPC)",
	},
	{
		LawCode:            "cpc",
		Stage:              "issues framed",
		CurrentStage:       "Issues framed by Court",
		NextStep:           "Filing list of witnesses & Evidence Affidavits",
		TimelineDays:       15,
		MaxExtensionDays:   15,
		StatutoryReference: "Order XVI Rule 1, Civil Procedure Code (CPC)",
	},
	{
		LawCode:            "crpc",
		Stage:              "fir registered",
		CurrentStage:       "FIR Registered",
		NextStep:           "Investigation by Police and Filing of Charge Sheet",
		TimelineDays:       60,
		MaxExtensionDays:   90,
		StatutoryReference: "Section 167(2), Code of Criminal Procedure (CrPC)",
	},
}

// Table is an ordered, read-only procedural lookup table
type Table struct {
	entries []Entry
}

// tableFile is the on-disk shape of a table extension
type tableFile struct {
	Entries []Entry `yaml:"entries"`
}

// DefaultTable returns the built-in table
func DefaultTable() *Table {
	t, err := NewTable(builtinEntries)
	if err != nil {
		panic(fmt.Sprintf("procedural: invalid built-in table: %v", err))
	}
	return t
}

// NewTable builds a table from entries, normalizing keys.
// Every entry must carry a next step, a statutory reference and non-negative day counts.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{entries: make([]Entry, 0, len(entries))}
	for i, e := range entries {
		e.LawCode = normalizeLawCode(e.LawCode)
		e.Stage = normalizeStage(e.Stage)

		switch {
		case e.LawCode == "":
			return nil, fmt.Errorf("entry %d: law_code is required", i)
		case e.Stage == "":
			return nil, fmt.Errorf("entry %d (%s): stage is required", i, e.LawCode)
		case strings.TrimSpace(e.NextStep) == "":
			return nil, fmt.Errorf("entry %d (%s/%s): next_procedural_step is required", i, e.LawCode, e.Stage)
		case strings.TrimSpace(e.StatutoryReference) == "":
			return nil, fmt.Errorf("entry %d (%s/%s): statutory_reference is required", i, e.LawCode, e.Stage)
		case e.TimelineDays < 0 || e.MaxExtensionDays < 0:
			return nil, fmt.Errorf("entry %d (%s/%s): day counts must be non-negative", i, e.LawCode, e.Stage)
		}

		if e.CurrentStage == "" {
			e.CurrentStage = e.Stage
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// LoadTable returns the built-in table extended with entries from a YAML file.
// File entries are consulted after the built-ins.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read procedural table: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse procedural table %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(builtinEntries)+len(file.Entries))
	entries = append(entries, builtinEntries...)
	entries = append(entries, file.Entries...)

	t, err := NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("procedural table %s: %w", path, err)
	}
	return t, nil
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// LawCodes returns the distinct law codes in table order
func (t *Table) LawCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, e := range t.entries {
		if !seen[e.LawCode] {
			seen[e.LawCode] = true
			codes = append(codes, e.LawCode)
		}
	}
	return codes
}

// Lookup finds the first entry for the query's law code whose canonical label
// and the query stage contain one another. An empty stage never matches.
func (t *Table) Lookup(q model.ProceduralQuery) (model.ProceduralRecord, bool) {
	lawCode := normalizeLawCode(q.LawCode)
	stage := normalizeStage(q.CaseStage)
	if lawCode == "" || stage == "" {
		return model.ProceduralRecord{}, false
	}

	for _, e := range t.entries {
		if e.LawCode != lawCode {
			continue
		}
		if strings.Contains(stage, e.Stage) || strings.Contains(e.Stage, stage) {
			return model.ProceduralRecord{
				LawCode:            strings.TrimSpace(q.LawCode),
				CurrentStage:       e.CurrentStage,
				NextStep:           e.NextStep,
				TimelineDays:       e.TimelineDays,
				MaxExtensionDays:   e.MaxExtensionDays,
				StatutoryReference: e.StatutoryReference,
				Confidence:         model.ConfidenceHigh,
			}, true
		}
	}

	return model.ProceduralRecord{}, false
}

// normalizeLawCode case-folds a law code and drops dots and spaces ("Cr.P.C." -> "crpc")
func normalizeLawCode(code string) string {
	code = strings.ToLower(code)
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, code)
}

// normalizeStage case-folds a stage and collapses whitespace
func normalizeStage(stage string) string {
	return strings.Join(strings.Fields(strings.ToLower(stage)), " ")
}
