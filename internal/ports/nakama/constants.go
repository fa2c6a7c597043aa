package nakama

// RPC identifiers registered with the Nakama runtime.
const (
	RpcCreateRoom    = "create_room"
	RpcJoinRoom      = "join_room"
	RpcReadyPlayer   = "ready_player"
	RpcLeaveRoom     = "leave_room"
	RpcGetRoom       = "get_room"
	RpcListOpenRooms = "list_open_rooms"

	RpcStartGame    = "start_game"
	RpcRollDice     = "roll_dice"
	RpcSkipTurn     = "skip_turn"
	RpcForfeit      = "forfeit"
	RpcFinalizeGame = "finalize_game"

	RpcGetWallet          = "get_wallet"
	RpcCreateDepositOrder = "create_deposit_order"
	RpcRazorpayWebhook    = "razorpay_webhook"
	RpcRequestWithdrawal  = "request_withdrawal"
)
