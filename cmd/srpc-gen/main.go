// Copyright 2024 The srpc Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command srpc-gen compiles a single .srpc contract file and emits the
// generated Go source next to it. It is a thin wrapper around
// parser.ParseContract and codegen.Emit — external-collaborator plumbing
// (spec.md §1's compiler and emitter are the module's real surface; this
// binary just gives them a command line).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jensonjenkins/srpc/codegen"
	"github.com/jensonjenkins/srpc/lexer"
	"github.com/jensonjenkins/srpc/parser"
)

var (
	outDir      string
	packageName string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "srpc-gen <contract.srpc>",
		Short: "Compile an srpc contract and emit Go bindings",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: the contract's own directory)")
	cmd.Flags().StringVar(&packageName, "package", "", "emitted Go package name (default: the output directory's base name)")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("srpc-gen: build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	inPath := args[0]
	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("srpc-gen: read %s: %w", inPath, err)
	}

	contract, err := parser.ParseContract(lexer.New(string(src)))
	if err != nil {
		for _, diag := range multierr.Errors(err) {
			logger.Error("parse error", zap.String("file", inPath), zap.Error(diag))
		}
		return fmt.Errorf("srpc-gen: %s failed to compile", inPath)
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(inPath)
	}
	pkg := packageName
	if pkg == "" {
		pkg = filepath.Base(dir)
	}

	out, err := codegen.Emit(contract, pkg)
	if err != nil {
		return fmt.Errorf("srpc-gen: emit: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	outPath := filepath.Join(dir, base+"_srpc.go")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("srpc-gen: write %s: %w", outPath, err)
	}
	logger.Info("wrote generated file", zap.String("path", outPath))
	return nil
}
