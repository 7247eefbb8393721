// Package vaultdeck is the Composition Root for the vaultdeck application.
//
// vaultdeck keeps an Anki collection in sync with flashcards written inside
// the Markdown notes of an Obsidian vault. Cards are found with user-defined
// regular expressions, sent to Anki through AnkiConnect, and tagged in the
// source note with an identifier marker so later runs update them instead
// of creating them again.
//
// Features:
//
//   - **Incremental**: Only notes whose content hash changed since the last
//     successful run are processed.
//   - **Batched**: Remote effects are grouped into a handful of AnkiConnect
//     round trips per run.
//   - **Safe Rewrites**: Identifier markers are written back atomically and
//     computed from the original text, so offsets never drift.
//   - **Media Aware**: Referenced images and audio are uploaded once, by name
//     or by content.
//   - **Watch Mode**: Re-runs on every debounced change to the vault.
//
// Usage:
//
//	report, err := vaultdeck.Sync(ctx, "vaultdeck.yaml",
//		vaultdeck.WithLogger(logger),
//	)
//
// A card is marked for deletion by appending #DELETE right after its
// identifier marker:
//
//	Q: What is ATP?
//	A: Energy<!--ID: 1712345678901-->#DELETE
package vaultdeck
