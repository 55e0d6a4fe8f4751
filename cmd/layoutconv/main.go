// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// layoutconv converts channel-first source graphs to channel-last target graphs, and reports the layout
// transpositions the conversion needed.
//
// The source graphs are either one of the sample models (-model) or a JSON encoded graph (-graph). Example:
//
//	layoutconv -model=all
//	layoutconv -model=transformer -nodes -inputs_layout=ChannelFirst
//	layoutconv -model=unet -export=unet.json && layoutconv -graph=unet.json -lazy=false
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gomlx/layoutconv/pkg/convert"
	"github.com/gomlx/layoutconv/pkg/convert/converters"
	"github.com/gomlx/layoutconv/pkg/core/layout"
	"github.com/gomlx/layoutconv/pkg/models"
	"github.com/gomlx/layoutconv/pkg/source"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagModel = flag.String("model", "all",
		fmt.Sprintf("Sample model to convert, or \"all\". Ignored if -graph is set. Sample models: %v", models.Names()))
	flagGraph  = flag.String("graph", "", "JSON file with the source graph to convert.")
	flagBatch  = flag.Int("batch", 1, "Batch size of the sample models.")
	flagExport = flag.String("export", "", "Write the JSON encoding of the source graph to this file, and exit. "+
		"It requires a single source graph.")

	flagInputsLayout = flag.String("inputs_layout", layout.ChannelLast.String(),
		fmt.Sprintf("Layout of the inputs of the target graph, one of %v.", layout.TagStrings()))
	flagOutputsLayout = flag.String("outputs_layout", layout.ChannelLast.String(),
		fmt.Sprintf("Layout of the outputs of the target graph, one of %v.", layout.TagStrings()))
	flagPreserveOutputs = flag.Bool("preserve_outputs", false,
		"Leave the outputs in the layout the conversion produced, instead of -outputs_layout.")
	flagLazy = flag.Bool("lazy", true, "Resolve permutations to or from channel-last by relabeling the layout, "+
		"without emitting a transpose.")

	flagSource = flag.Bool("source", false, "Print the source graphs.")
	flagTarget = flag.Bool("target", false, "Print the target graphs.")
	flagNodes  = flag.Bool("nodes", false, "Lists how each source node was converted.")

	flagParallelism = flag.Int("parallelism", runtime.NumCPU(),
		"Number of graphs converted concurrently: 0 converts them sequentially, -1 is unlimited.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if len(flag.Args()) > 0 {
		klog.Errorf("Unexpected arguments %q. See 'layoutconv -help'.", flag.Args())
		os.Exit(1)
	}

	graphs, err := loadGraphs(*flagModel, *flagGraph, *flagBatch)
	if err != nil {
		klog.Errorf("%+v", err)
		os.Exit(1)
	}
	if *flagExport != "" {
		if len(graphs) != 1 {
			klog.Errorf("-export requires a single source graph, got %d: select one with -model", len(graphs))
			os.Exit(1)
		}
		must.M(exportGraph(graphs[0], *flagExport))
		return
	}

	converter := must.M1(newConverter())
	if *flagSource {
		for _, g := range graphs {
			fmt.Println(titleStyle.Render(fmt.Sprintf("Source graph %q", g.Name())))
			fmt.Println(g)
		}
	}
	allResults, errs := converter.ConvertAll(graphs, *flagParallelism)
	var results []*convert.Result
	var converted []*source.Graph
	failed := false
	for ii, g := range graphs {
		if errs[ii] != nil {
			klog.Errorf("Failed to convert %q: %v", g.Name(), errs[ii])
			failed = true
			continue
		}
		result := allResults[ii]
		if *flagTarget {
			fmt.Println(titleStyle.Render(fmt.Sprintf("Target graph %q", g.Name())))
			fmt.Println(result.Graph)
		}
		if *flagNodes {
			Nodes(g, result)
		}
		converted = append(converted, g)
		results = append(results, result)
	}
	if len(results) > 0 {
		Summary(converted, results)
	}
	if failed {
		os.Exit(1)
	}
}

// loadGraphs returns the graph encoded in graphPath if set, or the selected sample models.
func loadGraphs(model, graphPath string, batchSize int) ([]*source.Graph, error) {
	if graphPath != "" {
		data, err := os.ReadFile(graphPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read source graph")
		}
		g, err := source.Unmarshal(data)
		if err != nil {
			return nil, errors.WithMessagef(err, "in file %q", graphPath)
		}
		return []*source.Graph{g}, nil
	}

	names := []string{model}
	if model == "all" {
		names = models.Names()
	}
	graphs := make([]*source.Graph, 0, len(names))
	for _, name := range names {
		g, err := models.Build(name, batchSize)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

func exportGraph(g *source.Graph, path string) error {
	data, err := source.Marshal(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write source graph %q", g.Name())
	}
	klog.V(1).Infof("wrote source graph %q to %q", g.Name(), path)
	return nil
}

// newConverter configured by the flags.
func newConverter() (*convert.Converter, error) {
	inputsLayout, err := layout.TagString(*flagInputsLayout)
	if err != nil {
		return nil, errors.Wrap(err, "invalid -inputs_layout")
	}
	outputsLayout, err := layout.TagString(*flagOutputsLayout)
	if err != nil {
		return nil, errors.Wrap(err, "invalid -outputs_layout")
	}
	c := convert.New(converters.Default()).
		InputsLayout(inputsLayout).
		OutputsLayout(outputsLayout).
		LazyPermutes(*flagLazy)
	if *flagPreserveOutputs {
		c.PreserveOutputsLayout()
	}
	return c, nil
}
