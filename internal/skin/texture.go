package skin

import "math"

// Gray одноканальное 8-битное изображение в построчной раскладке.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray создаёт изображение; pix должен иметь длину width*height.
func NewGray(width, height int, pix []uint8) Gray {
	return Gray{Width: width, Height: height, Pix: pix}
}

func (g Gray) at(x, y int) float64 {
	return float64(g.Pix[y*g.Width+x])
}

// bilinear читает значение в дробной точке; за границей изображения 0.
func (g Gray) bilinear(r, c float64) float64 {
	minR, maxR := math.Floor(r), math.Ceil(r)
	minC, maxC := math.Floor(c), math.Ceil(c)
	dr, dc := r-minR, c-minC

	get := func(rr, cc float64) float64 {
		y, x := int(rr), int(cc)
		if y < 0 || y >= g.Height || x < 0 || x >= g.Width {
			return 0
		}
		return g.at(x, y)
	}

	top := (1-dc)*get(minR, minC) + dc*get(minR, maxC)
	bottom := (1-dc)*get(maxR, minC) + dc*get(maxR, maxC)
	return (1-dr)*top + dr*bottom
}

// UniformLBP считает вращательно-инвариантный «uniform» LBP с points
// соседями на окружности радиуса radius. Коды лежат в диапазоне 0..points+1.
func UniformLBP(g Gray, points int, radius float64) []float64 {
	out := make([]float64, g.Width*g.Height)
	if points <= 0 || len(g.Pix) == 0 {
		return out
	}

	rp := make([]float64, points)
	cp := make([]float64, points)
	for i := 0; i < points; i++ {
		angle := 2 * math.Pi * float64(i) / float64(points)
		rp[i] = round5(-radius * math.Sin(angle))
		cp[i] = round5(radius * math.Cos(angle))
	}

	signs := make([]int, points)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			center := g.at(x, y)
			sum := 0
			for i := 0; i < points; i++ {
				v := g.bilinear(float64(y)+rp[i], float64(x)+cp[i])
				if v-center >= 0 {
					signs[i] = 1
				} else {
					signs[i] = 0
				}
				sum += signs[i]
			}

			changes := 0
			for i := 0; i < points-1; i++ {
				if signs[i] != signs[i+1] {
					changes++
				}
			}

			if changes <= 2 {
				out[y*g.Width+x] = float64(sum)
			} else {
				out[y*g.Width+x] = float64(points + 1)
			}
		}
	}
	return out
}

func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// HistogramEntropy строит плотностную гистограмму значений по целым корзинам
// [0, bins) и возвращает её энтропию Шеннона в битах.
func HistogramEntropy(values []float64, bins int) float64 {
	if len(values) == 0 || bins <= 0 {
		return 0
	}
	hist := make([]float64, bins)
	counted := 0
	for _, v := range values {
		b := int(math.Floor(v))
		if v == float64(bins) {
			b = bins - 1
		}
		if b < 0 || b >= bins {
			continue
		}
		hist[b]++
		counted++
	}
	if counted == 0 {
		return 0
	}

	entropy := 0.0
	for _, h := range hist {
		p := h / float64(counted)
		entropy -= p * math.Log2(p+1e-10)
	}
	return entropy
}

// RankEntropy считает локальную энтропию (в битах) по дисковому окрестностному
// шаблону заданного радиуса. Пиксели за границей не учитываются.
func RankEntropy(g Gray, radius int) []float64 {
	out := make([]float64, g.Width*g.Height)
	if len(g.Pix) == 0 {
		return out
	}

	type offset struct{ dx, dy int }
	var disk []offset
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				disk = append(disk, offset{dx, dy})
			}
		}
	}

	var hist [256]int
	touched := make([]uint8, 0, len(disk))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			total := 0
			touched = touched[:0]
			for _, o := range disk {
				nx, ny := x+o.dx, y+o.dy
				if nx < 0 || nx >= g.Width || ny < 0 || ny >= g.Height {
					continue
				}
				v := g.Pix[ny*g.Width+nx]
				if hist[v] == 0 {
					touched = append(touched, v)
				}
				hist[v]++
				total++
			}

			entropy := 0.0
			for _, v := range touched {
				p := float64(hist[v]) / float64(total)
				entropy -= p * math.Log2(p)
				hist[v] = 0
			}
			out[y*g.Width+x] = entropy
		}
	}
	return out
}
