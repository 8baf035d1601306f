// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [FrameReader]: Positional reads of compressed frames from an archive
//   - [IndexRepository]: Loads and persists the frame index sidecar
//
// # Usage
//
// The application layer (internal/app, internal/scan) depends only on these
// interfaces. The concrete implementations live in pkg/frameio and pkg/index
// and are wired in by the facade.
//
// This separation enables:
//   - Testing scheduling and recovery logic with in-memory fakes
//   - Swapping storage without changing processing logic
//   - Clear boundaries and dependency direction
package ports
