package core

// SampleEmail is the complaint email used for manual smoke tests
const SampleEmail = `
    Dear Support Team,

    I am writing to express my disappointment with the recent changes to your investment platform.
    The new interface is confusing and has made it difficult for me to manage my portfolio effectively.
    Additionally, I've noticed some discrepancies in my account balance that I'd like to discuss.

    I've been a loyal customer for over five years, and I've always appreciated the excellent service
    provided by your team, especially Sarah from customer support who has been incredibly helpful in the past.

    However, if these issues are not resolved soon, I may need to consider moving my investments elsewhere.
    I hope we can find a solution quickly.

    Best regards,
    John Smith
    `
