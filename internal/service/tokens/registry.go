package tokens

import "strings"

// contractAddresses maps tracked symbols to their ERC-20 contract address
// (ETH uses the zero address). Only these symbols get whale-flow analysis.
var contractAddresses = map[string]string{
	"ETH":  "0x0000000000000000000000000000000000000000",
	"USDT": "0xdac17f958d2ee523a2206206994597c13d831ec7",
	"USDC": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
	"LINK": "0x514910771af9ca656af840dff83e8264ecf986ca",
	"UNI":  "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984",
	"AAVE": "0x7fc66500c84a76ad7e9c93437bfc5ac33e2ddae9",
	"WBTC": "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599",
	"DAI":  "0x6b175474e89094c44da98b954eedeac495271d0f",
}

// exchangeWallets holds known exchange hot-wallet addresses, lowercased.
// A whale transfer into one of these counts as sell pressure, out of one as
// buy pressure.
var exchangeWallets = map[string]struct{}{
	"0x3f5ce5fbfe3e9af3971dd833d26ba9b5c936f0be": {},
	"0xd551234ae421e3bcba99a0da6d736074f22192ff": {},
	"0x564286362092d8e7936f0549571a803b203aaced": {},
	"0x881d40237659c251811cec9c364ef91dc08d300c": {},
}

// ScanUniverse is the default symbol list a scan fans out over, in priority
// order; scans truncate it to the requested limit.
var ScanUniverse = []string{
	"BTC", "ETH", "BNB", "SOL", "XRP", "ADA", "DOGE", "AVAX", "MATIC", "LINK",
	"DOT", "ATOM", "ALGO", "ICP", "LTC", "ETC", "VET", "FIL", "UNI", "AAVE",
	"GRT", "APT", "NEAR", "LDO", "TON", "CAKE", "CFX", "JTO", "ORDI", "KAS",
	"SAND", "QNT", "PYTH", "TRB", "TRX", "SUI", "APE", "OP", "JUP", "TIA",
	"WIF", "OM", "MYRO", "SEI", "INJ", "RUNE", "ARB", "PEPE", "SHIB", "CRV",
	"MKR", "RAY", "PENDLE", "STRK", "FET", "TAO", "ARKM", "IMX", "RNDR",
}

// ContractAddress resolves a symbol to its tracked contract address.
func ContractAddress(symbol string) (string, bool) {
	addr, ok := contractAddresses[strings.ToUpper(symbol)]
	return addr, ok
}

// Tracked reports whether whale flows are analyzable for the symbol.
func Tracked(symbol string) bool {
	_, ok := contractAddresses[strings.ToUpper(symbol)]
	return ok
}

// TrackedCount returns the number of whale-tracked tokens.
func TrackedCount() int { return len(contractAddresses) }

// IsExchangeWallet reports whether addr belongs to a known exchange.
func IsExchangeWallet(addr string) bool {
	_, ok := exchangeWallets[strings.ToLower(addr)]
	return ok
}
