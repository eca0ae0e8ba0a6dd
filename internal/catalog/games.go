package catalog

var games = []Game{
	// Slots
	slot("001", "Diamond Rush", "0.96", VolatilityMedium, 25, 5),
	slot("002", "Gold Strike", "0.95", VolatilityHigh, 25, 5),
	slot("003", "Crypto Kings", "0.97", VolatilityLow, 20, 5),
	slot("004", "Midnight Riches", "0.96", VolatilityMedium, 30, 5),
	slot("005", "Thunder Vault", "0.94", VolatilityHigh, 25, 5),
	slot("006", "Emerald Flush", "0.97", VolatilityLow, 15, 3),
	slot("007", "Lucky Sevens", "0.95", VolatilityMedium, 5, 3),
	slot("008", "Aztec Treasures", "0.96", VolatilityHigh, 25, 5),
	slot("009", "Cosmic Quest", "0.97", VolatilityMedium, 20, 5),
	slot("010", "Cartel Fortune", "0.96", VolatilityMedium, 25, 5),

	// Table
	game("011", "Blackjack", CategoryTable, "0.99", VolatilityLow, "1", "10000"),
	game("012", "European Roulette", CategoryTable, "0.973", VolatilityLow, "1", "5000"),
	game("013", "American Roulette", CategoryTable, "0.947", VolatilityLow, "1", "5000"),
	game("014", "Baccarat", CategoryTable, "0.985", VolatilityLow, "1", "10000"),
	game("015", "Craps", CategoryTable, "0.986", VolatilityMedium, "1", "5000"),
	game("016", "Poker - Texas Hold'em", CategoryTable, "0.98", VolatilityHigh, "10", "10000"),
	game("017", "Three Card Poker", CategoryTable, "0.966", VolatilityMedium, "5", "5000"),
	game("018", "Pai Gow Poker", CategoryTable, "0.972", VolatilityMedium, "5", "5000"),
	game("019", "Caribbean Stud", CategoryTable, "0.975", VolatilityHigh, "5", "5000"),
	game("020", "Keno", CategoryTable, "0.925", VolatilityHigh, "1", "1000"),
	game("021", "Bingo", CategoryTable, "0.940", VolatilityMedium, "1", "500"),
	game("022", "Sic Bo", CategoryTable, "0.972", VolatilityMedium, "1", "5000"),
	game("023", "Red Dog", CategoryTable, "0.961", VolatilityMedium, "1", "1000"),
	game("024", "War Card Game", CategoryTable, "0.955", VolatilityLow, "1", "500"),
	game("025", "Video Poker", CategoryTable, "0.99", VolatilityMedium, "1", "10000"),

	// Originals
	game("026", "Crash", CategoryOriginal, "0.99", VolatilityHigh, "0.01", "100"),
	game("027", "Plinko", CategoryOriginal, "0.97", VolatilityMedium, "0.1", "50"),
	game("028", "Dice Roll", CategoryOriginal, "0.99", VolatilityMedium, "0.01", "100"),
	game("029", "Coin Flip", CategoryOriginal, "0.99", VolatilityLow, "0.01", "50"),
	game("030", "Wheel of Fortune", CategoryOriginal, "0.96", VolatilityHigh, "1", "100"),
	game("031", "Lucky Numbers", CategoryOriginal, "0.95", VolatilityHigh, "0.1", "100"),
	game("032", "Scratch Cards", CategoryOriginal, "0.94", VolatilityHigh, "0.5", "50"),
	game("033", "Treasure Hunt", CategoryOriginal, "0.97", VolatilityMedium, "1", "100"),
	game("034", "Rock Paper Scissors", CategoryOriginal, "0.995", VolatilityLow, "0.01", "50"),
	game("035", "Lightning Link", CategoryOriginal, "0.96", VolatilityHigh, "0.1", "100"),
	game("036", "Mystery Box", CategoryOriginal, "0.97", VolatilityHigh, "1", "100"),
	game("037", "Ladder Climb", CategoryOriginal, "0.96", VolatilityMedium, "0.5", "50"),

	// Live
	game("038", "Live Blackjack", CategoryLive, "0.99", VolatilityLow, "10", "50000"),
	game("039", "Live Roulette", CategoryLive, "0.973", VolatilityLow, "5", "25000"),
	game("040", "Live Baccarat", CategoryLive, "0.985", VolatilityLow, "10", "50000"),
	game("041", "Live Poker", CategoryLive, "0.985", VolatilityHigh, "20", "50000"),
	game("042", "Live Craps", CategoryLive, "0.986", VolatilityMedium, "10", "25000"),
	game("043", "Live Sic Bo", CategoryLive, "0.972", VolatilityMedium, "5", "10000"),
	game("044", "Live Dragon Tiger", CategoryLive, "0.96", VolatilityLow, "5", "10000"),
	game("045", "Live Pai Gow", CategoryLive, "0.972", VolatilityMedium, "10", "25000"),
	game("046", "Live Caribbean Stud", CategoryLive, "0.975", VolatilityHigh, "10", "25000"),
	game("047", "Cartel VIP Suite", CategoryLive, "0.99", VolatilityMedium, "100", "100000"),
}
