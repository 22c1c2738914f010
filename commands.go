package connectctl

// Command names understood by the connect tool core. The request/response
// schemas are owned by the core; the structs below mirror the fields this
// library consumes.
const (
	// Lifecycle commands
	CmdCoreStatus  = "get_core_status"
	CmdCoreStart   = "start_core"
	CmdCoreStop    = "stop_core"
	CmdCoreVersion = "get_core_version"

	// Lobby commands
	CmdLobbyInfo     = "get_lobby_info"
	CmdLobbyCreate   = "create_lobby"
	CmdLobbyJoin     = "join_lobby"
	CmdLobbyLeave    = "leave_lobby"
	CmdFriendLobbies = "get_friend_lobbies"
	CmdInviteFriend  = "invite_friend"

	// VPN commands
	CmdVPNStatus = "get_vpn_status"
	CmdVPNRoutes = "get_vpn_routing_table"
	CmdVPNStart  = "start_vpn"
	CmdVPNStop   = "stop_vpn"

	// Steam process commands
	CmdSteamFind         = "find_steam"
	CmdSteamRunning      = "get_steam_running_status"
	CmdSteamInit         = "init_steam"
	CmdSteamRestartChina = "restart_steam_china"

	// Firewall commands
	CmdFirewallStatus = "get_firewall_status"
	CmdFirewallSet    = "set_firewall"
)

// CoreStatusReply is the payload of get_core_status.
type CoreStatusReply struct {
	Running bool `json:"running"`
	PID     int  `json:"pid"`
}

// CoreVersionReply is the payload of get_core_version.
type CoreVersionReply struct {
	Version string `json:"version"`
}

// LobbyMember is one member entry in a lobby.
type LobbyMember struct {
	SteamID string `json:"steam_id"`
	Name    string `json:"name"`
	Owner   bool   `json:"owner"`
}

// LobbyInfoReply is the payload of get_lobby_info.
type LobbyInfoReply struct {
	InLobby bool          `json:"in_lobby"`
	LobbyID string        `json:"lobby_id"`
	Members []LobbyMember `json:"members"`
}

// FriendLobby is one joinable lobby advertised by a friend.
type FriendLobby struct {
	LobbyID    string `json:"lobby_id"`
	FriendID   string `json:"friend_id"`
	FriendName string `json:"friend_name"`
}

// FriendLobbiesReply is the payload of get_friend_lobbies.
type FriendLobbiesReply struct {
	Lobbies []FriendLobby `json:"lobbies"`
}

// JoinLobbyArgs is the request body of join_lobby.
type JoinLobbyArgs struct {
	LobbyID string `json:"lobby_id"`
}

// InviteFriendArgs is the request body of invite_friend.
type InviteFriendArgs struct {
	FriendID string `json:"friend_id"`
}

// VPNStats carries tunnel counters reported by get_vpn_status.
type VPNStats struct {
	IP      string `json:"ip"`
	Mask    string `json:"mask"`
	TxBytes uint64 `json:"tx_bytes"`
	RxBytes uint64 `json:"rx_bytes"`
}

// VPNStatusReply is the payload of get_vpn_status.
type VPNStatusReply struct {
	Enabled bool     `json:"enabled"`
	Stats   VPNStats `json:"stats"`
}

// VPNRoute is one entry of the tunnel routing table.
type VPNRoute struct {
	Destination string `json:"destination"`
	Gateway     string `json:"gateway"`
	Metric      int    `json:"metric"`
}

// VPNRoutesReply is the payload of get_vpn_routing_table.
type VPNRoutesReply struct {
	Routes []VPNRoute `json:"routes"`
}

// StartVPNArgs is the request body of start_vpn.
type StartVPNArgs struct {
	IP   string `json:"ip"`
	Mask string `json:"mask"`
}

// SteamFindReply is the payload of find_steam.
type SteamFindReply struct {
	Path       string `json:"path"`
	Executable string `json:"executable"`
}

// SteamRunningReply is the payload of get_steam_running_status.
type SteamRunningReply struct {
	Running bool `json:"running"`
	PID     int  `json:"pid"`
}

// FirewallStatusReply is the payload of get_firewall_status: one enabled
// flag per Windows firewall profile.
type FirewallStatusReply struct {
	Domain  bool `json:"domain"`
	Private bool `json:"private"`
	Public  bool `json:"public"`
}

// SetFirewallArgs is the request body of set_firewall.
type SetFirewallArgs struct {
	Enabled bool `json:"enabled"`
}
