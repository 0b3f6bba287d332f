package catalog

import "github.com/fastprodman/econoneeds/internal/money"

// Defaults returns the baseline price list written on first run.
func Defaults() map[string]money.Amount {
	return map[string]money.Amount{
		// ores and ingots
		"DIAMOND":      money.Units(100),
		"EMERALD":      money.Units(75),
		"GOLD_INGOT":   money.Units(50),
		"IRON_INGOT":   money.Units(25),
		"COPPER_INGOT": money.Units(10),
		"COAL":         money.Units(5),
		"LAPIS_LAZULI": money.Units(8),
		"REDSTONE":     money.Units(4),
		"QUARTZ":       money.Units(6),

		// raw ores
		"RAW_IRON":   money.Units(15),
		"RAW_GOLD":   money.Units(30),
		"RAW_COPPER": money.Units(5),

		// wood
		"OAK_LOG":      money.Units(10),
		"SPRUCE_LOG":   money.Units(10),
		"BIRCH_LOG":    money.Units(10),
		"JUNGLE_LOG":   money.Units(10),
		"ACACIA_LOG":   money.Units(10),
		"DARK_OAK_LOG": money.Units(10),
		"MANGROVE_LOG": money.Units(10),
		"CHERRY_LOG":   money.Units(12),

		// stone
		"COBBLESTONE": money.Units(1),
		"STONE":       money.Units(2),
		"GRANITE":     money.Units(2),
		"DIORITE":     money.Units(2),
		"ANDESITE":    money.Units(2),
		"DEEPSLATE":   money.Units(3),

		// crops
		"WHEAT":       money.Units(3),
		"CARROT":      money.Units(4),
		"POTATO":      money.Units(4),
		"BEETROOT":    money.Units(3),
		"MELON_SLICE": money.Units(2),
		"PUMPKIN":     money.Units(8),
		"SUGAR_CANE":  money.Units(5),

		// mob drops
		"LEATHER":      money.Units(8),
		"BONE":         money.Units(3),
		"STRING":       money.Units(4),
		"ROTTEN_FLESH": money.Units(1),
		"SPIDER_EYE":   money.Units(5),
		"GUNPOWDER":    money.Units(10),
		"ENDER_PEARL":  money.Units(25),
		"BLAZE_ROD":    money.Units(30),
		"GHAST_TEAR":   money.Units(50),

		// fish
		"COD":           money.Units(5),
		"SALMON":        money.Units(6),
		"TROPICAL_FISH": money.Units(15),
		"PUFFERFISH":    money.Units(20),
	}
}
