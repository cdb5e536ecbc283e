// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"efmt/internal/lsp"
)

const lsName = "efmt"

var (
	version = "0.0.1"
	handler protocol.Handler
)

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()

	handler = protocol.Handler{
		Initialize:                 h.Initialize,
		Initialized:                h.Initialized,
		Shutdown:                   h.Shutdown,
		TextDocumentDidOpen:        h.TextDocumentDidOpen,
		TextDocumentDidChange:      h.TextDocumentDidChange,
		TextDocumentDidClose:       h.TextDocumentDidClose,
		TextDocumentFormatting:     h.TextDocumentFormatting,
		TextDocumentRangeFormatting: h.TextDocumentRangeFormatting,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting efmt LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting efmt LSP server:", err)
		os.Exit(1)
	}
}
