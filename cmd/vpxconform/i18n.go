// Package main provides localization for the vpxconform CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Selection": "対象",
		"Decoding":  "デコード",
		"Report":    "レポート",
		"Logging":   "ログ",

		// Root command
		"Check IVF files against the libvpx decoder": "IVFファイルをlibvpxデコーダで検証",

		"vpxconform reads IVF containers, decodes every frame with libvpx and reports PASS or FAIL.": "vpxconformはIVFコンテナを読み込み、全フレームをlibvpxでデコードして合否を報告します。",

		// Flags
		"Check every asset in the configured list":                 "設定された全アセットを検証",
		"YAML configuration file":                                  "YAML設定ファイル",
		"Decoder worker threads":                                   "デコーダのワーカースレッド数",
		"Check mode (decode, format, read)":                        "検証モード（decode, format, read）",
		"Bytes after the last declared frame (ignore, warn, fail)": "最終フレーム以降のデータの扱い（ignore, warn, fail）",
		"Write a report to this file (- for stdout)":               "レポートの出力先ファイル（- で標準出力）",
		"Report format (text, json)":                               "レポート形式（text, json）",
		"Log level (debug, info, warn, error)":                     "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":                               "ログ形式（console, json）",
		"Suppress all log output":                                  "すべてのログ出力を抑制",

		// Text report labels
		"Conformance Report": "適合性レポート",
		"Run":                "実行",
		"Mode":               "モード",
		"Generated":          "生成日時",
		"Results":            "結果",
		"passed":             "合格",
		"PASS":               "合格",
		"FAIL":               "不合格",
		"frames":             "フレーム",
		"failed":             "失敗",
		"trailing bytes":     "余分なバイト",
	})
}
