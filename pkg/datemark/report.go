package datemark

import (
	"fmt"
	"io"
)

// report writes the user-facing progress commentary.
type report struct {
	w io.Writer
}

func (r report) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

func (r report) found(n int) { r.printf("找到 %d 个图片文件", n) }

func (r report) outDir(dir string) { r.printf("输出目录: %s", dir) }

func (r report) start(i Image) { r.printf("处理: %s", i.Name) }

func (r report) result(res Result, dryRun bool) {
	switch res.Outcome {
	case Labeled:
		if dryRun {
			r.printf("  将保存: %s", res.OutPath)
			return
		}
		r.printf("  已保存: %s", res.OutPath)
	case NoMetadata:
		r.printf("  跳过: 无法从 EXIF 数据中提取拍摄时间")
	case ParseFailed:
		r.printf("  跳过: EXIF 拍摄时间格式无效")
	case RenderFailed:
		r.printf("  错误: 无法处理图片")
	case SaveFailed:
		r.printf("  错误: 无法保存图片")
	}
}

func (r report) label(l string) { r.printf("  拍摄时间: %s", l) }

func (r report) copied(path string) { r.printf("  已复制原图: %s", path) }

func (r report) done(s *Summary) {
	r.printf("\n处理完成!")
	r.printf("成功处理: %d 个文件", s.Processed)
	r.printf("跳过: %d 个文件", s.Skipped)
}
