// Package logging provides config-driven categorized file-based logging for recaf-mcp-sub000.
// Logs are written to <workspace>/.recaf-mcp/logs/ with one file per category.
// Logging is controlled by debug_mode in the loaded config - when false, no logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log subsystem.
type Category string

const (
	CategoryBoot       Category = "boot"       // process startup, config/engine wiring
	CategoryWorkspace  Category = "workspace"  // workspace open/close, resource mutation, revisions
	CategoryCache      Category = "cache"      // cache hit/miss/evict, singleflight coalescing
	CategorySearch     Category = "search"     // search traversal, pagination
	CategoryXref       Category = "xref"       // cross-reference queries
	CategoryCallgraph  Category = "callgraph"  // call-graph build, path-finding
	CategoryInherit    Category = "inherit"    // inheritance index build and queries
	CategoryMapping    Category = "mapping"    // mapping application, transform pipeline, undo
	CategoryDispatch   Category = "dispatch"   // operation dispatch, timing
	CategoryResolver   Category = "resolver"   // element resolution, inventory, suggestions
	CategoryAnalyzer   Category = "analyzer"   // instruction analysis
	CategoryCapability Category = "capability" // decompiler/assembler/compiler/phantom calls
	CategoryPerformance Category = "performance" // slow-operation warnings
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig
// to avoid circular imports.
type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

// StructuredLogEntry is a JSON log entry for machine consumption.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers      = make(map[Category]*Logger)
	loggersMu    sync.RWMutex
	logsDir      string
	workspace    string
	config       loggingConfig
	configLoaded bool
	configMu     sync.RWMutex
	logLevel     int // 0=debug, 1=info, 2=warn, 3=error
)

const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory for a workspace path and an
// already-resolved logging configuration. Call once at process startup.
func Initialize(ws string, debugMode bool, categories map[string]bool, level string, jsonFormat bool) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".recaf-mcp", "logs")

	setConfig(loggingConfig{
		DebugMode:  debugMode,
		Categories: categories,
		Level:      level,
		JSONFormat: jsonFormat,
	})

	if !debugMode {
		return nil // silent no-op in production mode
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	bootLogger := Get(CategoryBoot)
	bootLogger.Info("=== logging initialized ===")
	bootLogger.Info("workspace: %s", workspace)
	bootLogger.Info("logs directory: %s", logsDir)
	bootLogger.Info("debug mode: %v", debugMode)
	bootLogger.Info("log level: %s", level)

	if len(categories) > 0 {
		enabledCount := 0
		for cat, enabled := range categories {
			if enabled {
				enabledCount++
			}
			bootLogger.Debug("category '%s': %v", cat, enabled)
		}
		bootLogger.Info("enabled categories: %d/%d", enabledCount, len(categories))
	} else {
		bootLogger.Info("all categories enabled (no category filter)")
	}

	return nil
}

func setConfig(c loggingConfig) {
	configMu.Lock()
	defer configMu.Unlock()

	config = c
	configLoaded = true

	switch config.Level {
	case "debug":
		logLevel = LevelDebug
	case "info":
		logLevel = LevelInfo
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()

	if !config.DebugMode {
		return false
	}

	if config.Categories == nil {
		return true
	}

	enabled, exists := config.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// IsJSONFormat returns whether JSON-structured logging is enabled.
func IsJSONFormat() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.JSONFormat
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger if debug mode is disabled or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category}
	}

	if logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", date, category)
	logPath := filepath.Join(logsDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l

	return l
}

func (l *Logger) logJSON(level, msg string) {
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("%s", data)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if IsJSONFormat() {
		l.logJSON("debug", msg)
	} else {
		l.logger.Printf("[DEBUG] %s", msg)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if IsJSONFormat() {
		l.logJSON("info", msg)
	} else {
		l.logger.Printf("[INFO] %s", msg)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if IsJSONFormat() {
		l.logJSON("warn", msg)
	} else {
		l.logger.Printf("[WARN] %s", msg)
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if IsJSONFormat() {
		l.logJSON("error", msg)
	} else {
		l.logger.Printf("[ERROR] %s", msg)
	}
}

// StructuredLog writes a fully structured log entry with custom fields.
func (l *Logger) StructuredLog(level string, msg string, fields map[string]interface{}) {
	if l.logger == nil {
		return
	}
	entry := StructuredLogEntry{
		Timestamp: time.Now().UnixMilli(),
		Category:  string(l.category),
		Level:     level,
		Message:   msg,
		Fields:    fields,
	}
	if IsJSONFormat() {
		data, err := json.Marshal(entry)
		if err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s | fields=%v", level, msg, fields)
}

// CloseAll closes all open log files. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - quick logging without getting a logger first.
// These are no-ops if the category is disabled.
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Workspace(format string, args ...interface{})      { Get(CategoryWorkspace).Info(format, args...) }
func WorkspaceDebug(format string, args ...interface{}) { Get(CategoryWorkspace).Debug(format, args...) }
func WorkspaceWarn(format string, args ...interface{})  { Get(CategoryWorkspace).Warn(format, args...) }
func WorkspaceError(format string, args ...interface{}) { Get(CategoryWorkspace).Error(format, args...) }

func Cache(format string, args ...interface{})      { Get(CategoryCache).Info(format, args...) }
func CacheDebug(format string, args ...interface{}) { Get(CategoryCache).Debug(format, args...) }
func CacheWarn(format string, args ...interface{})  { Get(CategoryCache).Warn(format, args...) }
func CacheError(format string, args ...interface{}) { Get(CategoryCache).Error(format, args...) }

func Search(format string, args ...interface{})      { Get(CategorySearch).Info(format, args...) }
func SearchDebug(format string, args ...interface{}) { Get(CategorySearch).Debug(format, args...) }
func SearchWarn(format string, args ...interface{})  { Get(CategorySearch).Warn(format, args...) }
func SearchError(format string, args ...interface{}) { Get(CategorySearch).Error(format, args...) }

func Xref(format string, args ...interface{})      { Get(CategoryXref).Info(format, args...) }
func XrefDebug(format string, args ...interface{}) { Get(CategoryXref).Debug(format, args...) }
func XrefWarn(format string, args ...interface{})  { Get(CategoryXref).Warn(format, args...) }
func XrefError(format string, args ...interface{}) { Get(CategoryXref).Error(format, args...) }

func Callgraph(format string, args ...interface{})      { Get(CategoryCallgraph).Info(format, args...) }
func CallgraphDebug(format string, args ...interface{}) { Get(CategoryCallgraph).Debug(format, args...) }
func CallgraphWarn(format string, args ...interface{})  { Get(CategoryCallgraph).Warn(format, args...) }
func CallgraphError(format string, args ...interface{}) { Get(CategoryCallgraph).Error(format, args...) }

func Inherit(format string, args ...interface{})      { Get(CategoryInherit).Info(format, args...) }
func InheritDebug(format string, args ...interface{}) { Get(CategoryInherit).Debug(format, args...) }
func InheritWarn(format string, args ...interface{})  { Get(CategoryInherit).Warn(format, args...) }
func InheritError(format string, args ...interface{}) { Get(CategoryInherit).Error(format, args...) }

func Mapping(format string, args ...interface{})      { Get(CategoryMapping).Info(format, args...) }
func MappingDebug(format string, args ...interface{}) { Get(CategoryMapping).Debug(format, args...) }
func MappingWarn(format string, args ...interface{})  { Get(CategoryMapping).Warn(format, args...) }
func MappingError(format string, args ...interface{}) { Get(CategoryMapping).Error(format, args...) }

func Dispatch(format string, args ...interface{})      { Get(CategoryDispatch).Info(format, args...) }
func DispatchDebug(format string, args ...interface{}) { Get(CategoryDispatch).Debug(format, args...) }
func DispatchWarn(format string, args ...interface{})  { Get(CategoryDispatch).Warn(format, args...) }
func DispatchError(format string, args ...interface{}) { Get(CategoryDispatch).Error(format, args...) }

func Resolver(format string, args ...interface{})      { Get(CategoryResolver).Info(format, args...) }
func ResolverDebug(format string, args ...interface{}) { Get(CategoryResolver).Debug(format, args...) }
func ResolverWarn(format string, args ...interface{})  { Get(CategoryResolver).Warn(format, args...) }
func ResolverError(format string, args ...interface{}) { Get(CategoryResolver).Error(format, args...) }

func Analyzer(format string, args ...interface{})      { Get(CategoryAnalyzer).Info(format, args...) }
func AnalyzerDebug(format string, args ...interface{}) { Get(CategoryAnalyzer).Debug(format, args...) }
func AnalyzerWarn(format string, args ...interface{})  { Get(CategoryAnalyzer).Warn(format, args...) }
func AnalyzerError(format string, args ...interface{}) { Get(CategoryAnalyzer).Error(format, args...) }

func Capability(format string, args ...interface{})      { Get(CategoryCapability).Info(format, args...) }
func CapabilityDebug(format string, args ...interface{}) { Get(CategoryCapability).Debug(format, args...) }
func CapabilityWarn(format string, args ...interface{})  { Get(CategoryCapability).Warn(format, args...) }
func CapabilityError(format string, args ...interface{}) { Get(CategoryCapability).Error(format, args...) }

// =============================================================================
// TIMING HELPERS - for performance logging
// =============================================================================

// Timer measures operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning on the performance category if duration
// exceeds threshold, otherwise logs at debug level on the timer's category.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(CategoryPerformance).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
