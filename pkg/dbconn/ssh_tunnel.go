// SPDX-License-Identifier: Apache-2.0

package dbconn

import (
	"fmt"
	"os/exec"
)

// controlSocket is the fixed rendezvous file used to manage the backgrounded
// SSH control-master connection. Only one DbConnection may exist per
// process, since the socket name is not parameterized.
const controlSocket = "backup-socket"

// sshTunnel owns a backgrounded "ssh -M -S backup-socket -fNT -L ..." local
// port forward. It must be closed on every exit path.
type sshTunnel struct {
	user   string
	host   string
	opened bool
}

func openSSHTunnel(user, host string, localPort, remotePort int, remoteHost string) (*sshTunnel, error) {
	t := &sshTunnel{user: user, host: host}

	// Best-effort: close any stale forward left over from a previous run.
	_ = t.closeControlSocket()

	dest := fmt.Sprintf("%s@%s", user, host)
	forward := fmt.Sprintf("%d:%s:%d", localPort, remoteHost, remotePort)

	cmd := exec.Command("ssh", "-M", "-S", controlSocket, "-fNT", "-L", forward, dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = t.closeControlSocket()
		return nil, fmt.Errorf("failed to forward local port %d to %s:%d via %s: %w (%s)", localPort, remoteHost, remotePort, dest, err, out)
	}
	if len(out) > 0 {
		_ = t.closeControlSocket()
		return nil, fmt.Errorf("ssh port-forward to %s reported an error: %s", dest, out)
	}

	t.opened = true
	return t, nil
}

// Close tears down the control-master connection. It is best-effort and
// always attempted, whether or not the forward ever opened.
func (t *sshTunnel) Close() error {
	if t == nil {
		return nil
	}
	return t.closeControlSocket()
}

func (t *sshTunnel) closeControlSocket() error {
	dest := fmt.Sprintf("%s@%s", t.user, t.host)
	cmd := exec.Command("ssh", "-q", "-S", controlSocket, "-O", "exit", dest)
	return cmd.Run()
}
