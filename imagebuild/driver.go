package imagebuild

import (
	"errors"

	"github.com/cluster-deployment-automation/gocli/matrix"
)

// MatrixDriver iterates the component × release cross product sequentially,
// component-major, and builds every registered combination.
type MatrixDriver struct {
	builder  *ImageBuilder
	registry string
	opts     Options
}

func NewMatrixDriver(b *ImageBuilder, registry string, opts Options) *MatrixDriver {
	return &MatrixDriver{
		builder:  b,
		registry: registry,
		opts:     opts,
	}
}

// Run builds the matrix, restricted by the optional release and component
// filters (empty string means all). Combinations absent from the registry are
// skipped without error; a full-matrix run tolerates sparse cells. Any build
// failure stops the run immediately.
func (d *MatrixDriver) Run(filterRelease, filterComponent string) error {
	for _, component := range matrix.Components() {
		if filterComponent != "" && component != filterComponent {
			continue
		}
		for _, release := range matrix.Releases() {
			if filterRelease != "" && release != filterRelease {
				continue
			}
			spec, err := matrix.Resolve(release, component)
			if err != nil {
				var notRegistered *matrix.NotRegisteredError
				if errors.As(err, &notRegistered) {
					continue
				}
				return err
			}
			if _, err := d.builder.Build(spec, d.registry, d.opts); err != nil {
				return err
			}
		}
	}
	return nil
}
