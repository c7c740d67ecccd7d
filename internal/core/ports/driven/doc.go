// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RecordLoader: Reads raw regulation rows from a tabular file
//   - RecordStore: Holds the current enriched table (and snapshot history)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChartRenderer: Writes PNG charts. Without it, the chart command is disabled.
//   - ReportWriter: Writes spreadsheet exports. Without it, export is disabled.
//   - SourceWatcher: Reports source file changes. Without it, live reload is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
