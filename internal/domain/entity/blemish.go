package entity

// Blemish описывает одно пятно акне, прошедшее фильтр по форме
type Blemish struct {
	X            int     // координата X левого верхнего угла
	Y            int     // координата Y левого верхнего угла
	Width        int     // ширина области в пикселях
	Height       int     // высота области в пикселях
	Area         float64 // площадь контура в пикселях
	Circularity  float64 // 4π·S/P², 1.0 для идеального круга
	Eccentricity float64 // эксцентриситет вписанного эллипса
}

// Center возвращает координаты центра пятна
func (b Blemish) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}
