// =================================================================================
//
//			digidaw - a terminal front end for the DigiDAW audio engine
//
//		 DigiDAW configures audio backends and devices and verifies them with
//	  a short test tone, using PortAudio or the JACK audio server
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package shared

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"digidaw/display"
)

// UiLogHandler is a slog handler that writes records into the active UI
type UiLogHandler struct {
	level         slog.Leveler
	ui            display.UI
	attrs         []slog.Attr
	group         string
	errorCallback func(string)
}

func NewUiLogHandler(out display.UI, level slog.Leveler, errorCallback func(string)) *UiLogHandler {
	h := &UiLogHandler{
		level:         level,
		ui:            out,
		attrs:         make([]slog.Attr, 0),
		errorCallback: errorCallback,
	}

	return h
}

func (h *UiLogHandler) Handle(ctx context.Context, r slog.Record) error {
	message := r.Message
	fields := make([]string, 0)

	for _, attr := range h.attrs {
		fields = append(fields, h.formatAttr(attr))
	}

	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, h.formatAttr(attr))
		return true
	})

	if len(fields) > 0 {
		message += " " + strings.Join(fields, " ")
	}

	h.ui.WriteLevelLog(r.Level, message)

	if r.Level >= slog.LevelError {
		h.ui.IncrementErrorCount()

		if h.errorCallback != nil {
			h.errorCallback(message)
		}
	}

	return nil
}

func (h *UiLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *UiLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

func (h *UiLogHandler) WithGroup(name string) slog.Handler {
	clone := *h

	if clone.group == "" {
		clone.group = name
	} else {
		clone.group += "." + name
	}

	return &clone
}

func (h *UiLogHandler) formatAttr(attr slog.Attr) string {
	key := attr.Key
	if h.group != "" {
		key = h.group + "." + key
	}

	return fmt.Sprintf("%s=%s", key, attr.Value.String())
}
