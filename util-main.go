package main

import (
	"fmt"

	"github.com/mstarongithub/theinterface/common/ipc"
	"github.com/spf13/cobra"
	"github.com/swaywm/go-wlroots/wlroots"
	"gitlab.com/mstarongitlab/goutils/sliceutils"
	"gopkg.in/yaml.v3"
)

func toolCommand() *cobra.Command {
	tool := &cobra.Command{
		Use:   "tool",
		Short: "Tools for figuring out configurations and similar",
	}
	tool.AddCommand(&cobra.Command{
		Use:   "outputs",
		Short: "List available outputs",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runTool(ipc.OutputRequest{})
		},
	})
	tool.AddCommand(&cobra.Command{
		Use:   "modes <output>",
		Short: "List available modes for an output",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTool(ipc.OutputRequest{
				IncludeModes:    true,
				SpecifiesOutput: true,
				TargetOutput:    args[0],
			})
		},
	})
	return tool
}

// runTool starts a server just long enough to see the outputs and prints
// the answer to req
func runTool(req ipc.OutputRequest) error {
	// Init a server, used for stuff like getting displays
	server, err := NewServer(loadConfig(), true)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}
	if err = server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	defer server.Destroy()

	res := server.outputResponse(req)
	if req.SpecifiesOutput && res.OutputsFound == 0 {
		return fmt.Errorf("output %s not found", req.TargetOutput)
	}
	out, err := yaml.Marshal(res)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func (server *Server) outputResponse(req ipc.OutputRequest) ipc.OutputResponse {
	outputs := server.Outputs()
	if req.SpecifiesOutput {
		outputs = sliceutils.Filter(outputs, func(o wlroots.Output) bool {
			return o.Name() == req.TargetOutput
		})
	}
	res := ipc.OutputResponse{OutputsFound: len(outputs)}
	if req.IncludeModes {
		res.OutputModes = map[string][]ipc.OutputMode{}
	}
	for _, o := range outputs {
		res.Outputs = append(res.Outputs, o.Name())
		if !req.IncludeModes {
			continue
		}
		modes := []ipc.OutputMode{}
		for _, m := range server.outputs[o].Modes() {
			modes = append(modes, ipc.OutputMode{
				Width:       m.Width,
				Height:      m.Height,
				RefreshRate: m.Refresh,
				Preferred:   m.Preferred,
			})
		}
		res.OutputModes[o.Name()] = modes
	}
	return res
}
