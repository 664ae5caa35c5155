package app

import (
	"time"

	"github.com/apm-run/apm/internal/adapters"
	"github.com/apm-run/apm/internal/ports"
)

// Service wires the core algorithms to concrete adapters and is the
// single entry point the CLI dispatcher (C11) drives.
type Service struct {
	ManifestLoader     ports.ManifestLoaderPort
	PackageShape       ports.PackageShapePort
	Hosting            ports.HostingPort
	ArchiveFetcher     ports.ArchiveFetcherPort
	LockStore          ports.LockStorePort
	Walker             ports.PrimitiveWalkerPort
	FileReader         ports.FileReaderPort
	ProjectAnalyzer    ports.ProjectAnalyzerPort
	AgentsWriter       ports.AgentsWriterPort
	ConstitutionReader ports.ConstitutionReaderPort
	ProjectRoot        string
	InstallConcurrency int
	Clock              func() time.Time
}

// NewService builds a Service backed by the real filesystem/network
// adapters, rooted at projectRoot.
func NewService(projectRoot string) Service {
	hosting := adapters.NewHostingGitHubAdapter()
	extractor := adapters.NewTarGzExtractorAdapter()
	shape := adapters.NewPackageShapeAdapter()
	return Service{
		ManifestLoader:     adapters.NewManifestFileAdapter(),
		PackageShape:       shape,
		Hosting:            hosting,
		ArchiveFetcher:     adapters.NewArchiveFetcherAdapter(hosting, extractor, shape),
		LockStore:          adapters.NewLockFileAdapter(),
		Walker:             adapters.NewFSWalkerAdapter(),
		FileReader:         adapters.NewFileReaderAdapter(),
		ProjectAnalyzer:    adapters.NewProjectAnalyzerAdapter(),
		AgentsWriter:       adapters.NewAGENTSWriterAdapter(projectRoot),
		ConstitutionReader: adapters.NewConstitutionFileAdapter(),
		ProjectRoot:        projectRoot,
		InstallConcurrency: 4,
		Clock:              time.Now,
	}
}
