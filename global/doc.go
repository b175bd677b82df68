// Package global holds one process-wide [goStats.Engine] for application
// entry points that do not want to thread an engine through their code.
//
// [Get] builds the engine lazily from [goStats.ConfigFromEnv]. When that
// fails the failure is logged and a disabled engine is returned, so callers
// can record unconditionally. [Init] installs an explicit configuration
// instead and must run before the first Get.
//
// Libraries should accept a *goStats.Engine rather than import this package.
package global
