package connectctl

import "context"

// LobbySnapshot is the reconciled lobby membership view. The zero value
// means "not in a lobby".
type LobbySnapshot struct {
	InLobby bool
	LobbyID string
	Members []LobbyMember
}

// LobbyReconciler keeps the lobby membership snapshot in sync with the
// core. Mutating actions are immediate one-shot calls followed by a forced
// refresh, so the published snapshot reflects the change before the next
// scheduled tick.
type LobbyReconciler struct {
	gw     Gateway
	notify *Notifier
	poller *Poller[LobbySnapshot]
}

// NewLobbyReconciler creates the lobby reconciler.
func NewLobbyReconciler(gw Gateway, opts ...ReconcilerOption) *LobbyReconciler {
	cfg := newReconcilerConfig(DefaultLobbyInterval, opts)

	r := &LobbyReconciler{
		gw:     gw,
		notify: cfg.notify,
	}
	r.poller = NewPoller("lobby", cfg.interval, r.fetch, WithPollerLogger(cfg.log))
	return r
}

// Start begins polling lobby state.
func (r *LobbyReconciler) Start(ctx context.Context) error {
	return r.poller.Start(ctx)
}

// Stop ends polling.
func (r *LobbyReconciler) Stop() {
	r.poller.Stop()
}

// Snapshot returns the last reconciled lobby state.
func (r *LobbyReconciler) Snapshot() (LobbySnapshot, bool) {
	return r.poller.Snapshot()
}

func (r *LobbyReconciler) fetch(ctx context.Context) (LobbySnapshot, error) {
	var info LobbyInfoReply
	if err := r.gw.Invoke(ctx, CmdLobbyInfo, nil, &info); err != nil {
		return LobbySnapshot{}, err
	}

	if !info.InLobby {
		return LobbySnapshot{}, nil
	}

	return LobbySnapshot{
		InLobby: true,
		LobbyID: info.LobbyID,
		Members: info.Members,
	}, nil
}

// Create creates a new lobby.
func (r *LobbyReconciler) Create(ctx context.Context) error {
	return r.action(ctx, CmdLobbyCreate, nil, "lobby created")
}

// Join joins the lobby with the given id.
func (r *LobbyReconciler) Join(ctx context.Context, lobbyID string) error {
	return r.action(ctx, CmdLobbyJoin, JoinLobbyArgs{LobbyID: lobbyID}, "joined lobby")
}

// Leave leaves the current lobby.
func (r *LobbyReconciler) Leave(ctx context.Context) error {
	return r.action(ctx, CmdLobbyLeave, nil, "left lobby")
}

// Invite invites a friend to the current lobby.
func (r *LobbyReconciler) Invite(ctx context.Context, friendID string) error {
	return r.action(ctx, CmdInviteFriend, InviteFriendArgs{FriendID: friendID}, "invite sent")
}

// FriendLobbies fetches the joinable lobbies advertised by friends. This is
// an on-demand read, not part of the polling schedule.
func (r *LobbyReconciler) FriendLobbies(ctx context.Context) ([]FriendLobby, error) {
	var reply FriendLobbiesReply
	if err := r.gw.Invoke(ctx, CmdFriendLobbies, nil, &reply); err != nil {
		return nil, err
	}
	return reply.Lobbies, nil
}

// action issues one mutating lobby command. Failures surface on the
// notification stream and are returned; successes notify and force a
// refresh so the UI sees the new membership immediately.
func (r *LobbyReconciler) action(ctx context.Context, command string, args any, success string) error {
	if err := r.gw.Invoke(ctx, command, args, nil); err != nil {
		notifyError(r.notify, "%s failed: %v", command, err)
		return err
	}

	notifySuccess(r.notify, "%s", success)

	if err := r.poller.Refresh(ctx); err != nil {
		// The mutation succeeded; a failed follow-up refresh heals on the
		// next tick.
		notifyError(r.notify, "lobby refresh failed: %v", err)
	}
	return nil
}
