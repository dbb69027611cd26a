package inventory

// Status: stok durumunun türetilmiş değeri. Veritabanına hiçbir zaman
// yazılmaz; her okumada yeniden hesaplanır (eski sürümde saklanıyordu ve
// bayatlıyordu, o yüzden kaldırıldı).
type Status string

const (
	StatusCritical Status = "critical"
	StatusLow      Status = "low"
	StatusGood     Status = "good"
)

// ThresholdPolicy: düşük stok eşiğinin nasıl hesaplanacağını belirler.
type ThresholdPolicy struct {
	// true ise her stok girişi eşik tabanını yeni toplama çeker.
	RebaseOnRestock bool

	// 0'dan büyükse dinamik %50 kuralı yerine bu sabit eşik kullanılır.
	AbsoluteFloor int
}

// Threshold: eşik tabanından geçerli düşük stok eşiğini hesaplar.
func (p ThresholdPolicy) Threshold(thresholdBase int) int {
	if p.AbsoluteFloor > 0 {
		return p.AbsoluteFloor
	}
	return thresholdBase / 2
}

// ComputeStatus: miktar ve eşik tabanından stok durumunu türetir. Saf
// fonksiyondur; aynı girdiyle her çağrı aynı sonucu verir.
//
// thresholdBase <= 0 ise taban miktara eşit kabul edilir (yeni oluşturulan
// ürün her zaman "good" başlar). Miktar eşiğe tam eşitse durum "good"dur;
// sınır alt tarafta açıktır.
func ComputeStatus(quantity, thresholdBase int, policy ThresholdPolicy) Status {
	if quantity <= 0 {
		return StatusCritical
	}
	if thresholdBase <= 0 {
		thresholdBase = quantity
	}
	if quantity < policy.Threshold(thresholdBase) {
		return StatusLow
	}
	return StatusGood
}
