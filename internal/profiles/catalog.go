package profiles

import (
	"github.com/multiboot-dev/mbpatch/internal/application/ports"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	"github.com/multiboot-dev/mbpatch/internal/profiles/googleapps"
	"github.com/multiboot-dev/mbpatch/internal/profiles/jflte"
)

// Builtin returns every built-in profile source bound to engine.
func Builtin(engine ports.PatchEngine) []entities.ProfileSource {
	factories := []func(ports.PatchEngine) (*entities.Descriptor, error){
		googleapps.Gummy,
		jflte.AOSP,
		jflte.BAMAndroid,
		jflte.GoogleEditionMaKTaiL,
	}

	sources := make([]entities.ProfileSource, 0, len(factories))
	for _, f := range factories {
		f := f
		sources = append(sources, NewSource(func() (*entities.Descriptor, error) {
			return f(engine)
		}))
	}
	return sources
}
