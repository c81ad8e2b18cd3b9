//go:build windows

package pandoc

import "os/exec"

// configureProcessTree relies on the default CommandContext kill on Windows;
// job objects would be needed to reach grandchildren.
func configureProcessTree(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
}
