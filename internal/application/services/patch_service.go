package services

import (
	"context"
	"errors"
	"log/slog"
	"runtime"

	"github.com/multiboot-dev/mbpatch/internal/application/dto"
	"github.com/multiboot-dev/mbpatch/internal/domain/entities"
	domainservices "github.com/multiboot-dev/mbpatch/internal/domain/services"
	"github.com/multiboot-dev/mbpatch/internal/domain/values"
	"golang.org/x/sync/errgroup"
)

// MinJobs is the lower bound on concurrent dispatches when jobs is not set.
const MinJobs = 2

// PatchService resolves archives against the profile registry and drives
// them through the dispatcher.
type PatchService struct {
	registry   *domainservices.ProfileRegistry
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewPatchService creates a patch service over a populated registry.
func NewPatchService(registry *domainservices.ProfileRegistry, dispatcher *Dispatcher, logger *slog.Logger) *PatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(logger)
	}
	return &PatchService{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListProfiles returns every registered profile ordered by identifier.
func (s *PatchService) ListProfiles() []dto.ProfileSummary {
	descriptors := s.registry.List()
	out := make([]dto.ProfileSummary, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, dto.NewProfileSummary(d))
	}
	return out
}

// Match resolves filename without touching the archive.
func (s *PatchService) Match(filename, device string) dto.MatchResult {
	result := dto.MatchResult{Filename: filename}

	family, err := values.NewDeviceFamily(device)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	d, err := s.registry.ResolveForDevice(filename, family)
	if err != nil {
		result.Error = err.Error()
		var amb *entities.AmbiguousProfileError
		if errors.As(err, &amb) {
			for _, id := range amb.Candidates {
				result.Candidates = append(result.Candidates, id.String())
			}
		}
		return result
	}

	result.ProfileID = d.ID().String()
	result.Name = d.Name()
	return result
}

// Patch resolves and dispatches a single archive.
func (s *PatchService) Patch(ctx context.Context, req dto.PatchRequest) dto.PatchResult {
	result := dto.PatchResult{
		ArchivePath: req.ArchivePath,
		State:       entities.DispatchCreated,
	}

	descriptor, archive, err := s.prepare(req)
	if err != nil {
		return failed(result, err)
	}
	result.ProfileID = descriptor.ID().String()
	result.ProfileName = descriptor.Name()

	dc := s.dispatcher.NewContext(descriptor, archive)
	result.DispatchID = dc.ID().String()

	patched, err := dc.Run(ctx)
	result.State = dc.State()
	result.Entries = dc.Entries().Names()
	if err != nil {
		s.logger.Warn("patch failed", "archive", req.ArchivePath, "profile", result.ProfileID, "error", err)
		return failed(result, err)
	}

	result.OutputPath = patched.Path
	result.Digest = patched.Digest.String()
	return result
}

// PatchAll dispatches every request concurrently, at most opts.Jobs at a
// time. Each request gets its own archive handle. A failed request never
// cancels the others; results are returned in request order.
func (s *PatchService) PatchAll(ctx context.Context, reqs []dto.PatchRequest, opts dto.PatchOptions) []dto.PatchResult {
	results := make([]dto.PatchResult, len(reqs))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
		if jobs < MinJobs {
			jobs = MinJobs
		}
	}

	var g errgroup.Group
	g.SetLimit(jobs)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = s.Patch(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *PatchService) prepare(req dto.PatchRequest) (*entities.Descriptor, *entities.Archive, error) {
	device, err := values.NewDeviceFamily(req.Device)
	if err != nil {
		return nil, nil, err
	}

	archive, err := entities.NewArchive(req.ArchivePath, device)
	if err != nil {
		return nil, nil, err
	}

	descriptor, err := s.registry.ResolveForDevice(archive.Name(), device)
	if err != nil {
		return nil, nil, err
	}

	return descriptor, archive, nil
}

func failed(result dto.PatchResult, err error) dto.PatchResult {
	result.Err = err
	result.Error = err.Error()
	if !result.State.IsTerminal() {
		result.State = entities.DispatchFailed
	}
	return result
}
