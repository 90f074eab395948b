package utils

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// SeedForSlot は基準シードから枠ごとのシードを導出します。
// 基準が nil の場合は nil を返し、サーバー側のランダムシードに任せます。
func SeedForSlot(base *int64, slot int) *int64 {
	if base == nil {
		return nil
	}
	v := *base + int64(slot)
	return &v
}

// SeedToPtrInt32 は *int64 を SDK 用の *int32 に変換します。
// int32 の範囲を超える値は上位ビットが切り捨てられます。
func SeedToPtrInt32(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	v := int32(*seed)
	return &v
}
