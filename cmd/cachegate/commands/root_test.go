package commands

import "testing"

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"serve", "keygen"} {
		if !names[want] {
			t.Errorf("rootCmd missing subcommand %q", want)
		}
	}
}

func TestRootCmd_ConfigFlagRegistered(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("rootCmd has no --config persistent flag")
	}
	if flag.DefValue != "" {
		t.Errorf("--config default = %q, want empty", flag.DefValue)
	}
}

func TestConfigFlag_ReflectsFlagValue(t *testing.T) {
	prev := cfgFile
	defer func() { cfgFile = prev }()

	cfgFile = "env"
	if got := ConfigFlag(); got != "env" {
		t.Errorf("ConfigFlag() = %q, want %q", got, "env")
	}
}
