// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"testing"

	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestLoadGraphs(t *testing.T) {
	graphs, err := loadGraphs("all", "", 2)
	require.NoError(t, err)
	require.Len(t, graphs, len(models.Names()))

	_, err = loadGraphs("vgg", "", 2)
	require.ErrorContains(t, err, "unknown model")

	// Exported graphs are loaded back with -graph.
	graphs, err = loadGraphs("unet", "", 2)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "unet.json")
	require.NoError(t, exportGraph(graphs[0], path))
	loaded, err := loadGraphs("ignored", path, 1)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, graphs[0].NumNodes(), loaded[0].NumNodes())
	require.Equal(t, graphs[0].Outputs()[0].Shape().Dimensions, loaded[0].Outputs()[0].Shape().Dimensions)

	_, err = loadGraphs("", filepath.Join(t.TempDir(), "missing.json"), 1)
	require.ErrorContains(t, err, "failed to read")
}

func TestNewConverter(t *testing.T) {
	defer func(inputs, outputs string) {
		*flagInputsLayout, *flagOutputsLayout = inputs, outputs
	}(*flagInputsLayout, *flagOutputsLayout)

	*flagInputsLayout = "channelfirst"
	converter, err := newConverter()
	require.NoError(t, err)
	g, err := models.Build("upsampler", 1)
	require.NoError(t, err)
	result, err := converter.Convert(g)
	require.NoError(t, err)
	require.Equal(t, 1, result.NumTransposes)
	require.Equal(t, "ChannelLast", tagsSummary(result.OutputsLayout))
	require.NotZero(t, transposedBytes(result))

	*flagOutputsLayout = "NHWC"
	_, err = newConverter()
	require.ErrorContains(t, err, "-outputs_layout")
}

func TestTagsSummary(t *testing.T) {
	require.Equal(t, "-", tagsSummary(nil))
	require.Equal(t, "ChannelFirst", tagsSummary([]layout.Tag{layout.ChannelFirst, layout.ChannelFirst}))
	require.Equal(t, "ChannelLast, ChannelFirst", tagsSummary([]layout.Tag{layout.ChannelLast, layout.ChannelFirst}))
}
