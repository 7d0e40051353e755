// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ReorderService ties parsing, embedding, scoring and search together;
// SettingsService and HistoryService expose configuration and past runs.
// Services are pure Go with no CGO dependencies.
package services
