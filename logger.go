package auth

import (
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
)

var (
	baseLoggerOnce sync.Once
	baseLogger     *glog.BaseLogger
)

func defaultBaseLogger() *glog.BaseLogger {
	baseLoggerOnce.Do(func() {
		baseLogger = glog.NewLogger(
			glog.WithLoggerTypePretty(),
			glog.WithLevel(glog.Trace),
			glog.WithName("auth"),
			glog.WithAddSource(false),
			glog.WithRichErrorHandler(errors.ToSlogAttributes),
		)
	})
	return baseLogger
}

func defaultLogger() Logger {
	return defaultBaseLogger()
}

// ProviderFromGlog exposes the named loggers of a glog base logger as a
// LoggerProvider.
func ProviderFromGlog(base *glog.BaseLogger) LoggerProvider {
	if base == nil {
		base = defaultBaseLogger()
	}
	return glogProvider{base: base}
}

type glogProvider struct {
	base *glog.BaseLogger
}

func (p glogProvider) GetLogger(name string) Logger {
	return p.base.GetLogger(name)
}

// ResolveLogger returns the provider and the named logger a component should
// use. An explicit logger wins. Otherwise the provider names the logger and
// the package glog logger covers names it has no logger for.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if logger != nil {
		return staticProvider{logger: logger}, logger
	}

	if provider == nil {
		provider = ProviderFromGlog(nil)
		return provider, provider.GetLogger(name)
	}

	resolved := fallbackProvider{provider: provider, fallback: defaultLogger()}
	return resolved, resolved.GetLogger(name)
}

type staticProvider struct {
	logger Logger
}

func (p staticProvider) GetLogger(string) Logger {
	return p.logger
}

type fallbackProvider struct {
	provider LoggerProvider
	fallback Logger
}

func (p fallbackProvider) GetLogger(name string) Logger {
	if l := p.provider.GetLogger(name); l != nil {
		return l
	}
	return p.fallback
}
