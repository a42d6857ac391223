package discover

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/scriptcheck/scriptcheck/types"
)

// Discovery consumes an enumerated script sequence exactly once, in order,
// and folds each classified script into a MetadataModel. It advances one
// script per Step call; all progress lives in the Discovery value so a
// caller may interleave arbitrary work between steps.
type Discovery struct {
	classifier Classifier
	scripts    []types.ScriptRef
	next       int
	model      *types.MetadataModel
	log        log.Logger
}

// NewDiscovery snapshots the given script sequence. The sequence's order is
// the discovery order and therefore the execution order.
func NewDiscovery(classifier Classifier, scripts []types.ScriptRef, logger log.Logger) *Discovery {
	if logger == nil {
		logger = log.New()
	}
	return &Discovery{
		classifier: classifier,
		scripts:    scripts,
		model:      types.NewMetadataModel(),
		log:        logger,
	}
}

// Step processes the next script and reports whether work remains.
func (d *Discovery) Step() bool {
	if d.next >= len(d.scripts) {
		return false
	}
	ref := d.scripts[d.next]
	d.next++

	cls := d.classifier.Classify(ref.Name)
	if cls.Role == RoleNone {
		return d.next < len(d.scripts)
	}

	suite := d.model.Suite(cls.Group)
	switch cls.Role {
	case RoleBeforeAll:
		suite.BeforeAll = &ref
	case RoleBeforeEach:
		suite.BeforeEach = &ref
	case RoleAfterEach:
		suite.AfterEach = &ref
	case RoleAfterAll:
		suite.AfterAll = &ref
	case RoleTest:
		suite.Tests = append(suite.Tests, ref)
	}
	d.log.Debug("Discovered script", "name", ref.Name, "role", cls.Role, "group", cls.Group)

	return d.next < len(d.scripts)
}

// Done reports whether the enumeration is exhausted.
func (d *Discovery) Done() bool {
	return d.next >= len(d.scripts)
}

// Model returns the metadata built so far. It is only complete once Done
// reports true.
func (d *Discovery) Model() *types.MetadataModel {
	return d.model
}

// Run drives discovery to completion in one call and returns the model.
func (d *Discovery) Run() *types.MetadataModel {
	for d.Step() {
	}
	return d.model
}
