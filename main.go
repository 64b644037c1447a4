package main

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"github.com/opsmgr-dash/opsmgr-dash/logger"
	"github.com/opsmgr-dash/opsmgr-dash/rpcserver"
	"go.uber.org/zap"
)

// entry point. no logic here.
func main() {
	logger.New(logger.DefaultConfig())
	zap.L().Info("Ops Manager Dashboard")
	rpcserver.Start()
}
