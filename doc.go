// Package connectctl provides the client-side supervision and state
// reconciliation layer for the connect tool core: the external privileged
// background process that implements Steam lobbies, the VPN tunnel, and
// firewall control. The core is reached over a local Unix-domain command
// socket; this package never implements any of that functionality itself,
// it only keeps a consistent client-side view of it.
//
// The central types:
//
//   - Gateway issues one named command per round trip. SocketGateway is the
//     concrete implementation over the core's command socket.
//   - Supervisor owns the lifecycle state machine of the core process:
//     start, stop, toggle, and a periodic status check that notices
//     externally-initiated state changes.
//   - Poller is the generic "fetch on an interval, keep the last good value"
//     primitive every domain reconciler is built on.
//   - The per-domain reconcilers (LobbyReconciler, VPNReconciler,
//     SteamReconciler, FirewallReconciler) compose one or more Gateway calls
//     into a single immutable snapshot per tick.
//   - Panel wires all of the above together with the application launch
//     sequence (one automatic start attempt, then polling begins regardless
//     of the outcome).
//
// A minimal consumer:
//
//	cfg := connectctl.DefaultConfig()
//	panel, err := connectctl.NewPanel(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	panel.Start(ctx)
//	defer panel.Stop()
//
//	// Views read snapshots; they never talk to the core directly.
//	if vpn, ok := panel.VPN.Snapshot(); ok {
//	    fmt.Printf("tunnel enabled: %v, %d routes\n", vpn.Enabled, len(vpn.Routes))
//	}
//
// # Error Handling
//
// Gateway calls fail with either a *TransportError (the core is unreachable
// or the round trip broke) or a *RemoteError (the core answered with a
// failure). During periodic polling both are swallowed at the reconciler
// boundary: the previous snapshot stays published and the next tick retries.
// During user-initiated one-shot actions (create a lobby, toggle the
// firewall, relaunch Steam) they are returned to the caller and surfaced on
// the notification stream. ErrBusy is returned when a lifecycle transition
// is requested while another is already in flight; concurrent transitions
// are rejected, never queued.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - One reusable polling primitive instead of per-view timer loops
//   - Snapshots that are replaced wholesale after a complete fetch
//     sequence, never partially mutated
//   - Explicit, owned state records exposed read-only to views
//   - Context-aware operations with proper timeouts
//
// Views are deliberately out of scope: the package exposes lifecycle state,
// one read-only snapshot per domain, and a notification request stream, and
// nothing else.
package connectctl
