// Package logger 控制台日志，按级别输出带颜色的前缀
package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type Console struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
	info  *color.Color
	warn  *color.Color
	err   *color.Color
}

// New mode: auto|on|off，auto 时由 color 根据终端判断
func New(out io.Writer, mode string) *Console {
	c := &Console{
		out:  out,
		info: color.New(color.FgCyan),
		warn: color.New(color.FgYellow, color.Bold),
		err:  color.New(color.FgRed, color.Bold),
	}
	for _, cl := range []*color.Color{c.info, c.warn, c.err} {
		switch mode {
		case "on":
			cl.EnableColor()
		case "off":
			cl.DisableColor()
		}
	}
	return c
}

// SetQuiet 只输出警告和错误
func (c *Console) SetQuiet(quiet bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiet = quiet
}

func (c *Console) Infof(format string, args ...any) {
	c.mu.Lock()
	quiet := c.quiet
	c.mu.Unlock()
	if quiet {
		return
	}
	c.write(c.info, "INFO ", format, args...)
}

func (c *Console) Warnf(format string, args ...any) {
	c.write(c.warn, "WARN ", format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	c.write(c.err, "ERROR", format, args...)
}

func (c *Console) write(level *color.Color, prefix, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, "%s %s\n", level.Sprint(prefix), fmt.Sprintf(format, args...))
}
