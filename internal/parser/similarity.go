package parser

// Similarity 计算两个字符串的相似度，范围 0-1
// 采用 Ratcliff/Obershelp 比值：2*M / (len(a)+len(b))，M 为递归最长公共子串的字符总数
// 与 difflib.SequenceMatcher.ratio 同口径，便于沿用其 0.6 经验阈值
func Similarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	matched := matchingChars(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingChars 递归统计匹配字符数
// 找到最长公共子串后，对其左右两侧分别递归
func matchingChars(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonSubstring 返回最长公共子串在 a、b 中的起点与长度
// 平票时固定取先遇到的位置，保证结果确定
func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] 表示以 a[i]、b[j] 结尾的公共后缀长度（滚动数组）
	lengths := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		// 从后向前滚动，避免覆盖上一行数据
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lengths[j+1] = lengths[j] + 1
				if lengths[j+1] > size {
					size = lengths[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				lengths[j+1] = 0
			}
		}
	}

	return ai, bi, size
}
