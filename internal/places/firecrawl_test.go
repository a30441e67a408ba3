package places

import "testing"

const sampleReviewHTML = `
<section class="listing">
  <div class="review-card review">
    <span class="review-author author">Ama K.</span>
    <span aria-label="5 star rating"></span>
    <p>Fantastic <b>sunset</b> kayak trip.</p>
  </div>
  <div class="review-card review">
    <span class="review-author author">Kojo B.</span>
    <span aria-label="3.5 star rating"></span>
    <p>Decent, a bit rushed.</p>
  </div>
</section>`

func TestParseReviewHTML(t *testing.T) {
	reviews := ParseReviewHTML(sampleReviewHTML)
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}

	if reviews[0].Author != "Ama K." || reviews[0].Rating != 5 {
		t.Errorf("unexpected first review: %+v", reviews[0])
	}
	if reviews[0].Text != "Fantastic sunset kayak trip." {
		t.Errorf("markup should be stripped from text, got %q", reviews[0].Text)
	}
	if reviews[1].Rating != 3.5 {
		t.Errorf("fractional rating lost: %+v", reviews[1])
	}
}

func TestParseReviewHTMLSkipsIncompleteBlocks(t *testing.T) {
	html := `
<div class="review">
  <span class="author">No Rating</span>
  <p>Missing a rating.</p>
</div>
<div class="review">
  <span aria-label="4 star rating"></span>
  <p>Missing an author.</p>
</div>
<div class="review">
  <span class="author">Bad Rating</span>
  <span aria-label="9 star rating"></span>
</div>`

	if reviews := ParseReviewHTML(html); len(reviews) != 0 {
		t.Errorf("incomplete blocks should be skipped, got %+v", reviews)
	}
}

func TestParseReviewHTMLEmpty(t *testing.T) {
	if reviews := ParseReviewHTML(""); len(reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(reviews))
	}
	if reviews := ParseReviewHTML("<html><body><p>No reviews here</p></body></html>"); len(reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(reviews))
	}
}
