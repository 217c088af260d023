package ipc

// TODO: Look into adding support for sway and hyprland ipc so that theinterface can interact with those in tool mode

type (
	// A request to list the available Outputs
	OutputRequest struct {
		// Whether to include the modes an output supports
		IncludeModes bool `json:"include_modes" yaml:"include_modes"`
		// Target one specific output
		SpecifiesOutput bool `json:"specifies_output" yaml:"specifies_output"`
		// Name of the output you want info on. Only matters if SpecifiesOutput is set
		TargetOutput string `json:"target_output" yaml:"target_output"`
	}

	// A mode an output supports
	OutputMode struct {
		// Mode height in pixel
		Height int `json:"height" yaml:"height"`
		// Mode width in pixel
		Width int `json:"width" yaml:"width"`
		// Refresh rate of the mode in millihertz
		RefreshRate int  `json:"refresh_rate" yaml:"refresh_rate"`
		Preferred   bool `json:"preferred" yaml:"preferred"`
	}

	// Response to a OutputRequest message
	OutputResponse struct {
		// List of all outputs. Only contains target output if specified
		Outputs []string `json:"outputs" yaml:"outputs"`
		// A list of modes an output supports. Only set if IncludeModes is true
		OutputModes map[string][]OutputMode `json:"output_modes,omitempty" yaml:"output_modes,omitempty"`
		// Nr of outputs found
		OutputsFound int `json:"outputs_found" yaml:"outputs_found"`
	}

	Rect struct {
		X      int `json:"x" yaml:"x"`
		Y      int `json:"y" yaml:"y"`
		Width  int `json:"width" yaml:"width"`
		Height int `json:"height" yaml:"height"`
	}

	// One client window
	ViewInfo struct {
		UUID      string `json:"uuid" yaml:"uuid"`
		Title     string `json:"title" yaml:"title"`
		Kind      string `json:"kind" yaml:"kind"`
		Box       Rect   `json:"box" yaml:"box"`
		Mapped    bool   `json:"mapped" yaml:"mapped"`
		Focused   bool   `json:"focused" yaml:"focused"`
		Decorated bool   `json:"decorated" yaml:"decorated"`
		PID       int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	}

	OutputInfo struct {
		Name      string     `json:"name" yaml:"name"`
		Box       Rect       `json:"box" yaml:"box"`
		Usable    Rect       `json:"usable" yaml:"usable"`
		Scale     float64    `json:"scale" yaml:"scale"`
		Transform string     `json:"transform" yaml:"transform"`
		Mode      OutputMode `json:"mode" yaml:"mode"`
		FPS       float64    `json:"fps" yaml:"fps"`
		Layers    []string   `json:"layers,omitempty" yaml:"layers,omitempty"`
	}

	SeatInfo struct {
		Name       string   `json:"name" yaml:"name"`
		CursorX    float64  `json:"cursor_x" yaml:"cursor_x"`
		CursorY    float64  `json:"cursor_y" yaml:"cursor_y"`
		Mode       string   `json:"mode" yaml:"mode"`
		Focused    string   `json:"focused,omitempty" yaml:"focused,omitempty"`
		Grabbed    string   `json:"grabbed,omitempty" yaml:"grabbed,omitempty"`
		FocusLayer string   `json:"focus_layer,omitempty" yaml:"focus_layer,omitempty"`
		Keyboards  []string `json:"keyboards" yaml:"keyboards"`
	}

	// Snapshot of the whole compositor. Views are in MRU order, most recent first
	State struct {
		Views   []ViewInfo   `json:"views" yaml:"views"`
		Outputs []OutputInfo `json:"outputs" yaml:"outputs"`
		Seat    SeatInfo     `json:"seat" yaml:"seat"`
	}
)
