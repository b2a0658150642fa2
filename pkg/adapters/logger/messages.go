package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Per-file progress (info)
		"Decoding: %s":              "デコード中: %s",
		"Reading: %s":               "読み込み中: %s",
		"  Codec: %s":               "  コーデック: %s",
		"  Size: %dx%d":             "  サイズ: %dx%d",
		"  Frames: %d":              "  フレーム数: %d",
		"  Decoder: %s, %d threads": "  デコーダ: %s, スレッド数 %d",
		"  Decoder initialized":     "  デコーダを初期化しました",
		"  Result: FAIL":            "  結果: 不合格",

		// Per-file results (info)
		"  Result: PASS (%d frames decoded in %dms)":       "  結果: 合格 (%d フレームを %dms でデコード)",
		"  Result: FAIL (%d/%d frames decoded, %d failed)": "  結果: 不合格 (%d/%d フレームをデコード, %d 失敗)",
		"  Result: PASS (read %d frame headers in %dms)":   "  結果: 合格 (%d フレームヘッダを %dms で読み込み)",
		"  Result: FAIL (read %d/%d frame headers)":        "  結果: 不合格 (%d/%d フレームヘッダを読み込み)",
		"  Result: PASS (read %d/%d frame headers)":        "  結果: 合格 (%d/%d フレームヘッダを読み込み)",
		"  Decoder init failed (tolerated): %s":            "  デコーダの初期化に失敗しました (許容): %s",

		// Batch (info)
		"=== libvpx Decode Test Suite ===":        "=== libvpx デコードテストスイート ===",
		"=== IVF Container Format Test Suite ===": "=== IVF コンテナ形式テストスイート ===",
		"=== libvpx IVF Read Test Suite ===":      "=== libvpx IVF 読み込みテストスイート ===",
		"Run %s: %d files":                        "実行 %s: %d ファイル",
		"[PASS] %s":                               "[合格] %s",
		"[FAIL] %s":                               "[不合格] %s",
		"=== Results: %d/%d passed ===":           "=== 結果: %d/%d 合格 ===",

		// Frame details (debug)
		"Frame %d: %d bytes, timestamp %d": "フレーム %d: %d バイト, タイムスタンプ %d",
		"Frame %d: %d images":              "フレーム %d: %d 枚の画像",

		// Warnings
		"Decode failed at frame %d: %s":    "フレーム %d のデコードに失敗しました: %s",
		"%d trailing bytes after frame %d": "フレーム %[2]d の後に %[1]d バイトの余分なデータがあります",
		"Stopped reading at frame %d: %s":  "フレーム %d で読み込みを中断しました: %s",
		"Failed to write report: %s":       "レポートの書き込みに失敗しました: %s",

		// Errors
		"Could not open file: %s":          "ファイルを開けませんでした: %s",
		"Not a valid IVF file: %s":         "有効な IVF ファイルではありません: %s",
		"Unknown codec: %s":                "不明なコーデック: %s",
		"Decoder init failed: %s":          "デコーダの初期化に失敗しました: %s",
		"Failed to read frame %d: %s":      "フレーム %d の読み込みに失敗しました: %s",
		"Trailing data rejected: %s":       "余分なデータが拒否されました: %s",
		"Failed to read trailing data: %s": "余分なデータの読み込みに失敗しました: %s",
	})
}
