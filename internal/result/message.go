package result

import (
	"fmt"

	"golang.org/x/text/language"
)

// Locales supported by the message catalog, in priority order. The first
// entry is the fallback for unmatched tags.
var supportedLocales = []language.Tag{
	language.English,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// Message renders the human-readable message for a code in the default
// locale (English). It is the single formatting function shared by every
// consumer of the taxonomy, so server responses, CLI output, and UI text
// stay in sync.
func Message(c Code) string {
	return MessageIn(language.English, c)
}

// MessageIn renders the message for a code in the closest supported locale.
func MessageIn(tag language.Tag, c Code) string {
	_, idx, _ := localeMatcher.Match(tag)
	if supportedLocales[idx] == language.Japanese {
		return messageJA(c)
	}
	return messageEN(c)
}

func messageEN(c Code) string {
	switch v := c.(type) {
	case ConversionSucceeded:
		return "diagram generated successfully"
	case ExportSucceeded:
		return "diagram exported successfully"
	case SlotSaved:
		return fmt.Sprintf("source saved to slot %d", v.Slot)
	case SlotLoaded:
		return fmt.Sprintf("source loaded from slot %d", v.Slot)
	case SlotDeleted:
		return fmt.Sprintf("slot %d deleted", v.Slot)
	case EmptyInput:
		return "enter diagram source before submitting"
	case InputTooLong:
		return fmt.Sprintf("source is too long: %d characters (limit %d)", v.Actual, v.Max)
	case SlotQuotaExceeded:
		return fmt.Sprintf("content exceeds the storage limit of %d characters; shorten it", v.Max)
	case NoFreeSlot:
		return fmt.Sprintf("all %d slots are occupied; delete one before saving", v.MaxSlots)
	case OutputTooLarge:
		return fmt.Sprintf("rendered image is too large: %d bytes (limit %d); reduce it with 'scale' or split the diagram", v.ActualBytes, v.MaxBytes)
	case EncodingFailed:
		return fmt.Sprintf("failed to encode source for the renderer (%s); check for unsupported characters", v.Encoding)
	case RenderParseFailed:
		if v.Line != nil {
			return fmt.Sprintf("processing failed near line %d; contact the administrator", *v.Line)
		}
		return "processing failed; contact the administrator"
	case RendererUnreachable:
		return fmt.Sprintf("renderer at %s is not responding; try again later or contact the administrator", v.Endpoint)
	case RendererTimedOut:
		return fmt.Sprintf("render request timed out after %dms; check the network and retry", v.DurationMs)
	case RendererRejected:
		return fmt.Sprintf("render request failed: %s", v.Message)
	case SlotWriteFailed:
		return fmt.Sprintf("failed to save slot: %s", v.Reason)
	case SlotReadFailed:
		return fmt.Sprintf("failed to read slot: %s", v.Reason)
	case SlotDeleteFailed:
		return fmt.Sprintf("failed to delete slot: %s", v.Reason)
	}
	return string(c.Kind())
}

func messageJA(c Code) string {
	switch v := c.(type) {
	case ConversionSucceeded:
		return "図が正常に生成されました"
	case ExportSucceeded:
		return "図が正常にエクスポートされました"
	case SlotSaved:
		return fmt.Sprintf("ソースをスロット%dに保存しました", v.Slot)
	case SlotLoaded:
		return fmt.Sprintf("スロット%dからソースを読み込みました", v.Slot)
	case SlotDeleted:
		return fmt.Sprintf("スロット%dのデータを削除しました", v.Slot)
	case EmptyInput:
		return "ソースを入力してください"
	case InputTooLong:
		return fmt.Sprintf("ソースが長すぎます。文字数を%d文字以内に減らしてください", v.Max)
	case SlotQuotaExceeded:
		return fmt.Sprintf("保存する内容の文字数が上限(%d文字)を超えています。内容を短縮してください", v.Max)
	case NoFreeSlot:
		return "一時保存上限に達しています。既存のスロットを削除してから保存してください"
	case OutputTooLarge:
		return "画像サイズが上限を超えています。'scale'でサイズを縮小するか、図を分割してください"
	case EncodingFailed:
		return "ソースの変換に失敗しました。文字コードや特殊文字が含まれていないかご確認ください"
	case RenderParseFailed:
		if v.Line != nil {
			return fmt.Sprintf("%d行目付近の処理中にエラーが発生しました。管理者へお問い合わせください", *v.Line)
		}
		return "処理中にエラーが発生しました。管理者へお問い合わせください"
	case RendererUnreachable:
		return "サーバーが応答していません。時間をおいて再度接続を試すか管理者に問い合わせてください"
	case RendererTimedOut:
		return "通信がタイムアウトしました。ネットワーク状況をご確認のうえ、再度お試しください"
	case RendererRejected:
		return "ネットワーク接続に失敗しました。インターネット接続をご確認ください"
	case SlotWriteFailed:
		return "ストレージへの保存に失敗しました。設定をご確認ください"
	case SlotReadFailed:
		return "ストレージからの読み込みに失敗しました。保存されたデータが破損している可能性があります"
	case SlotDeleteFailed:
		return "ストレージのデータ削除に失敗しました。再度お試しください"
	}
	return string(c.Kind())
}
